package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestLocal(t *testing.T) *LocalStore {
	t.Helper()
	ls := OpenLocal(filepath.Join(t.TempDir(), "local.db"))
	if !ls.Available() {
		t.Fatal("test local store failed to open")
	}
	return ls
}

// newTestRemote stands in for the cloud backend with a second SQLite
// handle: the adapter only speaks GORM, so the sync semantics are
// identical.
func newTestRemote(t *testing.T) *RemoteStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "remote.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test remote: %v", err)
	}
	if err := db.AutoMigrate(entityModels()...); err != nil {
		t.Fatalf("migrate test remote: %v", err)
	}
	return &RemoteStore{db: db, pollInterval: 20 * time.Millisecond}
}

func offlineRemote() *RemoteStore { return &RemoteStore{} }

func TestSaveThenAllWithRemoteDown(t *testing.T) {
	customers := NewStore[models.Customer]("customers", offlineRemote(), newTestLocal(t))

	c1 := models.Customer{ID: "c1", Name: "Asha"}
	c2 := models.Customer{ID: "c2", Name: "Ravi"}
	if err := customers.Save(&c1); err != nil {
		t.Fatalf("save c1: %v", err)
	}
	if err := customers.Save(&c2); err != nil {
		t.Fatalf("save c2: %v", err)
	}

	all := customers.All()
	if len(all) != 2 {
		t.Fatalf("All() returned %d records, want 2", len(all))
	}
	seen := map[string]string{}
	for _, c := range all {
		seen[c.ID] = c.Name
	}
	if seen["c1"] != "Asha" || seen["c2"] != "Ravi" {
		t.Errorf("All() = %v, want both saved customers", seen)
	}
}

func TestDeleteMissingIDIsNoOp(t *testing.T) {
	customers := NewStore[models.Customer]("customers", offlineRemote(), newTestLocal(t))

	if err := customers.Delete("never-existed"); err != nil {
		t.Fatalf("delete of missing id errored: %v", err)
	}
	if got := len(customers.All()); got != 0 {
		t.Errorf("All() after delete = %d records, want 0", got)
	}
}

func TestAllNeverFailsWithoutBackends(t *testing.T) {
	// Local engine dead AND remote unconfigured: All still answers.
	dead := OpenLocal(filepath.Join(t.TempDir(), "no-such-dir", "sub", "\x00bad"))
	customers := NewStore[models.Customer]("customers", offlineRemote(), dead)

	all := customers.All()
	if all == nil {
		t.Fatal("All() returned nil, want empty slice")
	}
	if len(all) != 0 {
		t.Errorf("All() = %d records, want 0", len(all))
	}
	// Writes vanish silently in degraded mode
	c := models.Customer{ID: "c1"}
	if err := customers.Save(&c); err != nil {
		t.Errorf("degraded save errored: %v", err)
	}
}

func TestRefreshOnReadMirrorsRemote(t *testing.T) {
	remote := newTestRemote(t)
	local := newTestLocal(t)
	services := NewStore[models.Service]("services", remote, local)

	for _, s := range []models.Service{
		{ID: "s1", Name: "Xerox", BasePrice: 2},
		{ID: "s2", Name: "Lamination", BasePrice: 20},
	} {
		svc := s
		if err := remote.Upsert("services", &svc); err != nil {
			t.Fatalf("seed remote: %v", err)
		}
	}

	if got := len(services.All()); got != 2 {
		t.Fatalf("All() = %d records, want 2", got)
	}

	// The local mirror must now hold everything the remote returned
	var mirrored []models.Service
	if err := local.GetAll("services", &mirrored); err != nil {
		t.Fatalf("local read: %v", err)
	}
	if len(mirrored) != 2 {
		t.Fatalf("mirror holds %d records after refresh-on-read, want 2", len(mirrored))
	}
}

func TestAllWithEmptyRemoteReturnsEmptySlice(t *testing.T) {
	// An empty cloud table must come back as an empty slice, exactly
	// like the offline path does
	customers := NewStore[models.Customer]("customers", newTestRemote(t), newTestLocal(t))

	all := customers.All()
	if all == nil {
		t.Fatal("All() returned nil for an empty cloud table, want empty slice")
	}
	if len(all) != 0 {
		t.Errorf("All() = %d records, want 0", len(all))
	}
}

func TestAllFallsBackToLocalMirror(t *testing.T) {
	local := newTestLocal(t)
	seeded := models.Customer{ID: "c1", Name: "Asha"}
	if err := local.Put("customers", &seeded); err != nil {
		t.Fatalf("seed local: %v", err)
	}

	customers := NewStore[models.Customer]("customers", offlineRemote(), local)
	all := customers.All()
	if len(all) != 1 || all[0].ID != "c1" {
		t.Fatalf("All() = %v, want the mirrored record", all)
	}
}

func TestGetByIDFallsBackToLocal(t *testing.T) {
	local := newTestLocal(t)
	item := models.InventoryItem{ID: "i1", Name: "A4 Paper", Quantity: 3, MinStock: 5}
	if err := local.Put("inventory_items", &item); err != nil {
		t.Fatalf("seed local: %v", err)
	}

	inventory := NewStore[models.InventoryItem]("inventory_items", offlineRemote(), local)
	got, found := inventory.GetByID("i1")
	if !found {
		t.Fatal("GetByID did not find mirrored record")
	}
	if !got.IsLowStock() {
		t.Error("expected low-stock item (3 <= 5)")
	}
	if _, found := inventory.GetByID("missing"); found {
		t.Error("GetByID found a record that does not exist")
	}
}

func TestSettingsSingleton(t *testing.T) {
	settings := NewSettingsStore(offlineRemote(), newTestLocal(t))

	if _, ok := settings.Get(); ok {
		t.Fatal("settings present before first save")
	}
	if err := settings.Save(models.CompanySettings{CompanyName: "First"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := settings.Save(models.CompanySettings{ID: "rogue-id", CompanyName: "Second"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok := settings.Get()
	if !ok {
		t.Fatal("settings missing after save")
	}
	if got.ID != models.SettingsID {
		t.Errorf("settings id = %q, want fixed key %q", got.ID, models.SettingsID)
	}
	if got.CompanyName != "Second" {
		t.Errorf("company name = %q, want wholesale replacement", got.CompanyName)
	}
}

func TestSubscribeWithoutRemoteIsNoOp(t *testing.T) {
	customers := NewStore[models.Customer]("customers", offlineRemote(), newTestLocal(t))
	stop := customers.Subscribe(func() { t.Error("callback fired without a remote") })
	stop()
	stop() // idempotent
}

func TestWatchFiresOnRemoteChange(t *testing.T) {
	remote := newTestRemote(t)
	changed := make(chan struct{}, 8)

	stop := remote.Watch("customers", func() { changed <- struct{}{} })
	defer stop()

	// Give the watcher its baseline probe before mutating
	time.Sleep(60 * time.Millisecond)

	c := models.Customer{ID: "c1", Name: "Asha"}
	if err := remote.Upsert("customers", &c); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never reported the row change")
	}

	stop()
	stop() // must be safe to call twice
}

func TestWatchPrimesBaselineAfterFailedProbe(t *testing.T) {
	// The watched table does not exist yet, so the baseline probe and
	// the first ticks all fail. Once the table appears (already holding
	// a row), the first healthy probe must only establish the baseline,
	// not fire for data that predates the watcher.
	remote := newTestRemote(t)
	changed := make(chan struct{}, 8)

	stop := remote.Watch("late_arrivals", func() { changed <- struct{}{} })
	defer stop()

	time.Sleep(60 * time.Millisecond) // a few failing ticks

	// Single statement: the table materializes with one row in it
	if err := remote.db.Exec(
		"CREATE TABLE late_arrivals AS SELECT 'r1' AS id, CURRENT_TIMESTAMP AS updated_at").Error; err != nil {
		t.Fatalf("create table: %v", err)
	}

	select {
	case <-changed:
		t.Fatal("watcher fired for the pre-existing row")
	case <-time.After(200 * time.Millisecond):
	}

	// A genuine change after the baseline still fires
	if err := remote.db.Exec(
		"INSERT INTO late_arrivals (id, updated_at) VALUES ('r2', CURRENT_TIMESTAMP)").Error; err != nil {
		t.Fatalf("insert: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never reported the change after the baseline")
	}
}
