package handlers

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/models"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/store"

	"github.com/gin-gonic/gin"
)

func newCustomerRouter(t *testing.T) (*gin.Engine, *store.Store[models.Customer]) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	local := store.OpenLocal(filepath.Join(t.TempDir(), "local.db"))
	if !local.Available() {
		t.Fatal("test local store failed to open")
	}
	customers := store.NewStore[models.Customer]("customers", &store.RemoteStore{}, local)

	h := &CustomerHandler{Customers: customers}
	r := gin.New()
	r.POST("/customers", h.Save)
	r.GET("/customers", h.List)
	return r, customers
}

func TestSaveCustomerRejectsBadAadhaar(t *testing.T) {
	r, customers := newCustomerRouter(t)

	body := `{"name":"Ravi","phone":"9876543210","aadhaar_number":"12345"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for 5-digit aadhaar", w.Code)
	}
	// Validation happens before the store is touched
	if got := len(customers.All()); got != 0 {
		t.Errorf("rejected customer still persisted (%d records)", got)
	}
}

func TestSaveCustomerAssignsIDAndPersists(t *testing.T) {
	r, customers := newCustomerRouter(t)

	body := `{"name":"Asha","phone":"9000000000","aadhaar_number":"123456789012"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}

	all := customers.All()
	if len(all) != 1 {
		t.Fatalf("store holds %d customers, want 1", len(all))
	}
	if all[0].ID == "" {
		t.Error("saved customer has no assigned id")
	}
	if all[0].Name != "Asha" {
		t.Errorf("saved name = %q, want Asha", all[0].Name)
	}
}

func TestSaveCustomerAllowsEmptyAadhaar(t *testing.T) {
	r, customers := newCustomerRouter(t)

	body := `{"name":"Meena","phone":"9111111111"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (aadhaar is optional)", w.Code)
	}
	if got := len(customers.All()); got != 1 {
		t.Fatalf("store holds %d customers, want 1", got)
	}
}
