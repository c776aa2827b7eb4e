package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/config"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrUnavailable means the cloud backend is unconfigured or unreachable.
// The synchronizing store treats it as "fall back to local", never as a
// caller-visible failure.
var ErrUnavailable = errors.New("cloud backend unavailable")

// RemoteStore wraps the hosted MySQL backend. When the endpoint or key is
// missing from the environment it is permanently unconfigured and every
// operation reports ErrUnavailable without touching the network. The zero
// value is exactly that unconfigured state.
type RemoteStore struct {
	db           *gorm.DB
	pollInterval time.Duration
}

// ConnectRemote builds the cloud adapter from config. A missing or
// unreachable backend is logged and tolerated — never fatal; the app is
// still fully usable against the local mirror.
func ConnectRemote(cfg *config.Config) *RemoteStore {
	rs := &RemoteStore{pollInterval: 3 * time.Second}

	if !cfg.CloudConfigured() {
		log.Println("☁️ Cloud backend not configured - pure-local mode")
		return rs
	}

	dsn := fmt.Sprintf("%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.CloudKey, cfg.CloudEndpoint, cfg.CloudDBName)

	var db *gorm.DB
	var err error
	for i := 0; i < 3; i++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			break
		}
		log.Printf("Cloud connection failed, retrying in 2 seconds... (%d/3)", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Printf("⚠️ Cloud backend unreachable (%v) - continuing local-only", err)
		return rs
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(entityModels()...); err != nil {
		log.Printf("⚠️ Cloud schema sync failed (%v) - continuing local-only", err)
		return rs
	}

	rs.db = db
	log.Println("✅ Connected to cloud MySQL")
	return rs
}

// Available reports whether the cloud backend is configured and connected.
func (r *RemoteStore) Available() bool { return r.db != nil }

// SelectAll loads every row of a table; ErrUnavailable covers both the
// unconfigured case and any backend/network error.
func (r *RemoteStore) SelectAll(table string, dest interface{}) error {
	if r.db == nil {
		return ErrUnavailable
	}
	if err := r.db.Table(table).Find(dest).Error; err != nil {
		log.Printf("Cloud read on %s failed: %v", table, err)
		return ErrUnavailable
	}
	return nil
}

// Upsert writes one row by primary key.
func (r *RemoteStore) Upsert(table string, record interface{}) error {
	if r.db == nil {
		return ErrUnavailable
	}
	err := r.db.Table(table).Clauses(clause.OnConflict{UpdateAll: true}).Create(record).Error
	if err != nil {
		log.Printf("Cloud write on %s failed: %v", table, err)
		return ErrUnavailable
	}
	return nil
}

// DeleteByID removes one row; a missing id is a no-op, not an error.
func (r *RemoteStore) DeleteByID(table, id string) error {
	if r.db == nil {
		return ErrUnavailable
	}
	if err := r.db.Exec("DELETE FROM "+table+" WHERE id = ?", id).Error; err != nil {
		log.Printf("Cloud delete on %s failed: %v", table, err)
		return ErrUnavailable
	}
	return nil
}

// SelectByID loads one row into dest. ErrNotFound when the row does not
// exist, ErrUnavailable when the backend cannot answer at all.
func (r *RemoteStore) SelectByID(table, id string, dest interface{}) error {
	if r.db == nil {
		return ErrUnavailable
	}
	err := r.db.Table(table).Where("id = ?", id).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		log.Printf("Cloud lookup on %s failed: %v", table, err)
		return ErrUnavailable
	}
	return nil
}

// tableProbe is the cheap change fingerprint the watcher polls.
type tableProbe struct {
	Count  int64
	Latest string
}

func (r *RemoteStore) probe(table string) (tableProbe, error) {
	var p tableProbe
	err := r.db.Table(table).
		Select("COUNT(*) as count, COALESCE(MAX(updated_at), '') as latest").
		Scan(&p).Error
	return p, err
}

// Watch polls a table and fires onChange (no payload - the subscriber
// re-fetches) whenever the row count or the newest update stamp moves.
// The returned stop function closes the watcher and is idempotent.
// Without a configured cloud backend there is nothing to watch and the
// stop function is a no-op.
func (r *RemoteStore) Watch(table string, onChange func()) func() {
	if r.db == nil {
		return func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		last, err := r.probe(table)
		primed := err == nil
		ticker := time.NewTicker(r.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				current, err := r.probe(table)
				if err != nil {
					continue // backend hiccup: try again next tick
				}
				if !primed {
					// First healthy probe after a failed baseline
					// only establishes the fingerprint
					last = current
					primed = true
					continue
				}
				if current != last {
					last = current
					onChange()
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }
}
