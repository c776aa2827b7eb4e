package store

import (
	"errors"
	"log"

	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/models"
)

// Store is the synchronizing record store for one entity type: reads are
// cloud-truth-with-local-cache, writes are best-effort-cloud with a
// guaranteed local write. A write made while the cloud is down is durable
// locally but is NOT replayed later — that is the contract, not a bug.
type Store[T any] struct {
	table  string
	remote *RemoteStore
	local  *LocalStore
}

func NewStore[T any](table string, remote *RemoteStore, local *LocalStore) *Store[T] {
	return &Store[T]{table: table, remote: remote, local: local}
}

// All returns every record of the collection. It never fails: a cloud
// outage falls back to the local mirror, a dead mirror yields an empty
// slice. Every successful cloud read refreshes the mirror so the next
// offline read sees the same data.
func (s *Store[T]) All() []T {
	var records []T
	if err := s.remote.SelectAll(s.table, &records); err == nil {
		if records == nil {
			records = []T{}
		}
		for i := range records {
			if err := s.local.Put(s.table, &records[i]); err != nil {
				log.Printf("Mirror refresh on %s failed: %v", s.table, err)
			}
		}
		return records
	}

	var cached []T
	if err := s.local.GetAll(s.table, &cached); err != nil {
		log.Printf("Local read on %s failed: %v", s.table, err)
		return []T{}
	}
	if cached == nil {
		cached = []T{}
	}
	return cached
}

// Save upserts one record into both backends. The cloud write is
// best-effort (failures are logged and swallowed); the local write is the
// one the caller is told about. The record comes back unchanged — no
// server-generated fields are merged in.
func (s *Store[T]) Save(record *T) error {
	if err := s.remote.Upsert(s.table, record); err != nil && !errors.Is(err, ErrUnavailable) {
		log.Printf("Cloud save on %s failed: %v", s.table, err)
	}
	return s.local.Put(s.table, record)
}

// Delete removes one record from both backends; a missing id is a no-op.
func (s *Store[T]) Delete(id string) error {
	if err := s.remote.DeleteByID(s.table, id); err != nil && !errors.Is(err, ErrUnavailable) {
		log.Printf("Cloud delete on %s failed: %v", s.table, err)
	}
	return s.local.DeleteByID(s.table, id)
}

// GetByID resolves one record, cloud first (mirroring a hit), then the
// local mirror. The bool reports whether anything was found.
func (s *Store[T]) GetByID(id string) (T, bool) {
	var record T
	err := s.remote.SelectByID(s.table, id, &record)
	if err == nil {
		if putErr := s.local.Put(s.table, &record); putErr != nil {
			log.Printf("Mirror refresh on %s failed: %v", s.table, putErr)
		}
		return record, true
	}
	if errors.Is(err, ErrNotFound) {
		return record, false
	}

	// Cloud could not answer: consult the mirror
	if err := s.local.GetByID(s.table, id, &record); err != nil {
		return record, false
	}
	return record, true
}

// Subscribe registers a no-payload change callback backed by the cloud
// watcher. In pure-local mode there is no change feed; the returned stop
// function is then a no-op.
func (s *Store[T]) Subscribe(onChange func()) func() {
	return s.remote.Watch(s.table, onChange)
}

// Table exposes the canonical table name (used for workbook sheet names).
func (s *Store[T]) Table() string { return s.table }

// SettingsStore pins the CompanySettings singleton to its fixed key.
type SettingsStore struct {
	inner *Store[models.CompanySettings]
}

func NewSettingsStore(remote *RemoteStore, local *LocalStore) *SettingsStore {
	return &SettingsStore{inner: NewStore[models.CompanySettings]("settings", remote, local)}
}

// Get returns the singleton if it has been initialized.
func (s *SettingsStore) Get() (models.CompanySettings, bool) {
	return s.inner.GetByID(models.SettingsID)
}

// Save replaces the singleton wholesale; the fixed key is forced so there
// can never be a second row.
func (s *SettingsStore) Save(settings models.CompanySettings) error {
	settings.ID = models.SettingsID
	return s.inner.Save(&settings)
}

func (s *SettingsStore) Subscribe(onChange func()) func() {
	return s.inner.Subscribe(onChange)
}

func (s *SettingsStore) Table() string { return s.inner.Table() }
