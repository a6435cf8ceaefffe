package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/guriri-dispatch/internal/chat"
	"github.com/example/guriri-dispatch/internal/dispatch"
	"github.com/example/guriri-dispatch/internal/engine"
	"github.com/example/guriri-dispatch/internal/locations"
	"github.com/example/guriri-dispatch/internal/models"
	"github.com/example/guriri-dispatch/internal/storage"
)

func newTestServer() (*Server, *storage.MemoryStore, *locations.Index) {
	store := storage.NewMemoryStore()
	locs := locations.NewIndex()
	wsreg := dispatch.NewWSRegistry()
	s := &Server{
		Engine:    engine.New(store),
		Store:     store,
		Locations: locs,
		Dispatch:  dispatch.NewWebhookDispatcher("", wsreg),
		WSReg:     wsreg,
		Responder: chat.NewResponder(time.Minute),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mux:       mux.NewRouter(),
	}
	s.registerMiddleware()
	s.routes()
	return s, store, locs
}

func allShifts(motoboyID string) []models.Schedule {
	rows := make([]models.Schedule, 7)
	for d := 0; d < 7; d++ {
		rows[d] = models.Schedule{MotoboyID: motoboyID, Weekday: d, Morning: true, Afternoon: true, Night: true}
	}
	return rows
}

func TestCreateOrderAssignsAndAutoAccepts(t *testing.T) {
	s, store, locs := newTestServer()
	store.AddMotoboy(models.Motoboy{ID: "m1", Name: "João", Online: true, StandardFee: "5"}, allShifts("m1"))
	locs.Upsert(models.MotoboyLocation{MotoboyID: "m1", Latitude: "-19.0", Longitude: "-40.0"})

	body := `{"valor":"80","coletaLat":"-19.0","coletaLng":"-40.0","distanceKm":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp createOrderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Assigned || resp.Order.MotoboyID != "m1" {
		t.Fatalf("expected assignment to m1, got %+v", resp)
	}
	// online courier, suggested fee >= standard fee
	if !resp.AutoAccepted || resp.Order.Status != models.StatusInProgress {
		t.Fatalf("expected auto-accept, got %+v", resp)
	}
	if resp.Order.CourierFee == "" {
		t.Fatal("expected a suggested courier fee")
	}
}

func TestCreateOrderNoCourierStaysPending(t *testing.T) {
	s, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"valor":"10"}`))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	var resp createOrderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Assigned || resp.Order.Status != models.StatusPending {
		t.Fatalf("expected pending order, got %+v", resp)
	}
}

func TestOrderStatusDelivered(t *testing.T) {
	s, store, _ := newTestServer()
	order := models.Order{ID: "o1", Status: models.StatusInProgress, CreatedAt: time.Now()}
	if err := store.SaveOrder(context.Background(), &order); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/o1/status", strings.NewReader(`{"status":"delivered"}`))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var got models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusDelivered || got.DeliveredAt == nil {
		t.Fatalf("expected delivered with timestamp, got %+v", got)
	}
}

func TestOrderStatusRejectsUnknown(t *testing.T) {
	s, _, _ := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/o1/status", strings.NewReader(`{"status":"teleported"}`))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestMotoboyRoute(t *testing.T) {
	s, store, _ := newTestServer()
	store.AddMotoboy(models.Motoboy{ID: "m1"}, nil)
	now := time.Now()
	for _, o := range []models.Order{
		{ID: "low", MotoboyID: "m1", Status: models.StatusInProgress, CreatedAt: now},
		{ID: "high", MotoboyID: "m1", Status: models.StatusInProgress, FreightValue: "120", Notes: "urgente", CreatedAt: now.Add(time.Second)},
		{ID: "other", MotoboyID: "m2", Status: models.StatusInProgress, CreatedAt: now},
	} {
		o := o
		if err := store.SaveOrder(context.Background(), &o); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/motoboys/m1/route", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got []models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "high" || got[1].ID != "low" {
		t.Fatalf("unexpected route order: %+v", got)
	}
}

func TestAutoResponseEndpoint(t *testing.T) {
	s, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/auto-response",
		bytes.NewReader([]byte(`{"message":"qual o valor?","category":"suporte"}`)))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got["response"] == "" {
		t.Fatal("expected a canned response")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/chat/auto-response",
		bytes.NewReader([]byte(`{"message":"bom dia","category":"suporte"}`)))
	w = httptest.NewRecorder()
	s.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204 for unmatched message", w.Code)
	}
}

func TestInsightsEndpoint(t *testing.T) {
	s, store, _ := newTestServer()
	store.AddMotoboy(models.Motoboy{ID: "m1", Online: true}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/insights", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got engine.Insights
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Recommendations == nil {
		t.Fatal("recommendations must be present, possibly empty")
	}
}

func TestLocationIngestUpdatesIndex(t *testing.T) {
	s, _, locs := newTestServer()

	body := `{"motoboyId":"m9","latitude":"-19.01","longitude":"-40.02"}`
	req := httptest.NewRequest(http.MethodPost, "/internal/motoboy/locations", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	got := locs.Latest([]string{"m9"})
	if loc, ok := got["m9"]; !ok || loc.Latitude != "-19.01" {
		t.Fatalf("expected stored location, got %+v", got)
	}
}
