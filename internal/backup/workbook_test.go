package backup

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/models"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/store"

	"github.com/xuri/excelize/v2"
)

func newBridge(t *testing.T) *Bridge {
	t.Helper()
	local := store.OpenLocal(filepath.Join(t.TempDir(), "local.db"))
	if !local.Available() {
		t.Fatal("test local store failed to open")
	}
	remote := &store.RemoteStore{} // pure-local: the normal write path still applies
	return &Bridge{
		Users:     store.NewStore[models.User]("users", remote, local),
		Customers: store.NewStore[models.Customer]("customers", remote, local),
		Services:  store.NewStore[models.Service]("services", remote, local),
		Jobs:      store.NewStore[models.Job]("jobs", remote, local),
		Inventory: store.NewStore[models.InventoryItem]("inventory_items", remote, local),
		Settings:  store.NewSettingsStore(remote, local),
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newBridge(t)

	user := models.User{ID: "u1", Username: "asha", PasswordHash: "x", Role: models.RoleAdmin}
	if err := src.Users.Save(&user); err != nil {
		t.Fatal(err)
	}
	customer := models.Customer{ID: "c1", Name: "Ravi", Phone: "9876543210", AadhaarNumber: "123456789012"}
	if err := src.Customers.Save(&customer); err != nil {
		t.Fatal(err)
	}
	service := models.Service{ID: "s1", Name: "Xerox", BasePrice: 2, Category: "Print"}
	if err := src.Services.Save(&service); err != nil {
		t.Fatal(err)
	}
	job := models.Job{
		ID:         "j1",
		CustomerID: "c1",
		Items:      []models.JobItem{{ServiceID: "s1", ServiceName: "Xerox", Quantity: 10, UnitPrice: 2}},
		PaidAmount: 5,
	}
	models.DeriveAggregates(&job)
	if err := src.Jobs.Save(&job); err != nil {
		t.Fatal(err)
	}
	item := models.InventoryItem{ID: "i1", Name: "A4 Paper", Quantity: 500, Unit: "sheets", MinStock: 100}
	if err := src.Inventory.Save(&item); err != nil {
		t.Fatal(err)
	}
	if err := src.Settings.Save(models.CompanySettings{CompanyName: "Test Kendra", OwnerName: "Asha"}); err != nil {
		t.Fatal(err)
	}

	data, filename, err := src.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filepath.Ext(filename) != ".xlsx" {
		t.Errorf("filename = %q, want .xlsx", filename)
	}

	dst := newBridge(t)
	imported, err := dst.Import(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported != 6 {
		t.Errorf("imported %d rows, want 6", imported)
	}

	if got := dst.Users.All(); len(got) != 1 || got[0].Username != "asha" || got[0].PasswordHash != "x" {
		t.Errorf("users did not round-trip: %+v", got)
	}
	if got := dst.Customers.All(); len(got) != 1 || got[0].AadhaarNumber != "123456789012" {
		t.Errorf("customers did not round-trip: %+v", got)
	}
	if got := dst.Services.All(); len(got) != 1 || got[0].BasePrice != 2 {
		t.Errorf("services did not round-trip: %+v", got)
	}
	jobs := dst.Jobs.All()
	if len(jobs) != 1 {
		t.Fatalf("jobs did not round-trip: %+v", jobs)
	}
	if jobs[0].TotalAmount != 20 || jobs[0].Balance != 15 || jobs[0].PaymentStatus != models.PaymentPartial {
		t.Errorf("job aggregates after import = %+v, want total 20 / balance 15 / PARTIAL", jobs[0])
	}
	if len(jobs[0].Items) != 1 || jobs[0].Items[0].Quantity != 10 {
		t.Errorf("job items did not round-trip: %+v", jobs[0].Items)
	}
	if got := dst.Inventory.All(); len(got) != 1 || got[0].Quantity != 500 {
		t.Errorf("inventory did not round-trip: %+v", got)
	}
	settings, ok := dst.Settings.Get()
	if !ok || settings.CompanyName != "Test Kendra" {
		t.Errorf("settings did not round-trip: %+v", settings)
	}
}

func TestImportRejectsUnknownWorkbook(t *testing.T) {
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "whatever")
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	dst := newBridge(t)
	if _, err := dst.Import(bytes.NewReader(buf.Bytes())); err != ErrUnknownWorkbook {
		t.Fatalf("import err = %v, want ErrUnknownWorkbook", err)
	}
	if got := len(dst.Customers.All()); got != 0 {
		t.Errorf("rejected import still wrote %d records", got)
	}
}

func TestImportDefaultsMissingColumns(t *testing.T) {
	// A customers sheet with NO aadhaar_number column at all: the row
	// must still be persisted, field defaulted to empty.
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), "customers")
	headers := []string{"id", "name", "phone"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue("customers", cell, h)
	}
	for i, v := range []string{"c9", "Meena", "9000000000"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue("customers", cell, v)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	dst := newBridge(t)
	imported, err := dst.Import(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported != 1 {
		t.Fatalf("imported %d rows, want 1", imported)
	}

	got := dst.Customers.All()
	if len(got) != 1 {
		t.Fatalf("row with missing column was dropped")
	}
	if got[0].Name != "Meena" || got[0].AadhaarNumber != "" {
		t.Errorf("record = %+v, want Meena with empty aadhaar", got[0])
	}
}
