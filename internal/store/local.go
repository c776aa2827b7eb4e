package store

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned by the by-id lookups of both adapters.
var ErrNotFound = errors.New("record not found")

// kvEntry backs the scalar values stored outside any entity table
// (currently just the session pointer).
type kvEntry struct {
	Key   string `gorm:"primaryKey;size:64"`
	Value string
}

func (kvEntry) TableName() string { return "kv_entries" }

// entityModels lists every table both backends provision.
func entityModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Customer{},
		&models.Service{},
		&models.Job{},
		&models.InventoryItem{},
		&models.CompanySettings{},
	}
}

// LocalStore wraps the on-device SQLite mirror. If the engine cannot be
// opened the store still constructs in a degraded mode: every read returns
// an empty result and every write is a silent no-op. The synchronizing
// store on top must keep working either way.
type LocalStore struct {
	db *gorm.DB

	// One writer at a time per table. SQLite serializes anyway, but this
	// keeps the last-write-wins ordering deterministic inside the process.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// OpenLocal opens (or creates) the local SQLite database and provisions
// one table per entity type plus the scalar KV table.
func OpenLocal(path string) *LocalStore {
	ls := &LocalStore{locks: make(map[string]*sync.Mutex)}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		os.MkdirAll(dir, 0o755)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Printf("⚠️ Local store unavailable (%v) - running without offline mirror", err)
		return ls
	}

	migrations := append(entityModels(), &kvEntry{})
	if err := db.AutoMigrate(migrations...); err != nil {
		log.Printf("⚠️ Local store migration failed (%v) - running without offline mirror", err)
		return ls
	}

	ls.db = db
	log.Println("✅ Local mirror ready at " + path)
	return ls
}

// Available reports whether the underlying engine opened at all.
func (l *LocalStore) Available() bool { return l.db != nil }

func (l *LocalStore) tableLock(table string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[table]
	if !ok {
		m = &sync.Mutex{}
		l.locks[table] = m
	}
	return m
}

// GetAll loads every record of a table. dest must be a pointer to a slice
// of the table's model. A missing engine yields an empty result, not an error.
func (l *LocalStore) GetAll(table string, dest interface{}) error {
	if l.db == nil {
		return nil
	}
	return l.db.Table(table).Find(dest).Error
}

// Put upserts one record by primary key.
func (l *LocalStore) Put(table string, record interface{}) error {
	if l.db == nil {
		return nil // degraded mode: writes vanish silently
	}
	lock := l.tableLock(table)
	lock.Lock()
	defer lock.Unlock()
	return l.db.Table(table).Clauses(clause.OnConflict{UpdateAll: true}).Create(record).Error
}

// DeleteByID removes one record; deleting an id that does not exist is a no-op.
func (l *LocalStore) DeleteByID(table, id string) error {
	if l.db == nil {
		return nil
	}
	lock := l.tableLock(table)
	lock.Lock()
	defer lock.Unlock()
	return l.db.Exec("DELETE FROM "+table+" WHERE id = ?", id).Error
}

// GetByID loads one record into dest; ErrNotFound when absent.
func (l *LocalStore) GetByID(table, id string, dest interface{}) error {
	if l.db == nil {
		return ErrNotFound
	}
	err := l.db.Table(table).Where("id = ?", id).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// --- Scalar values (session pointer) ---

func (l *LocalStore) SetValue(key, value string) error {
	if l.db == nil {
		return nil
	}
	entry := kvEntry{Key: key, Value: value}
	return l.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error
}

func (l *LocalStore) GetValue(key string) (string, bool) {
	if l.db == nil {
		return "", false
	}
	var entry kvEntry
	if err := l.db.First(&entry, "`key` = ?", key).Error; err != nil {
		return "", false
	}
	return entry.Value, true
}

func (l *LocalStore) DeleteValue(key string) error {
	if l.db == nil {
		return nil
	}
	return l.db.Where("`key` = ?", key).Delete(&kvEntry{}).Error
}
