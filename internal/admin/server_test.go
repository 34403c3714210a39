package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"geosentry/internal/anomaly"
	"geosentry/internal/engine"
	"geosentry/internal/geo"
	"geosentry/internal/sim"
	"geosentry/internal/track"
	"geosentry/internal/zone"
)

func testServer(t *testing.T) (*Server, *engine.Engine) {
	t.Helper()
	reg := zone.NewRegistry()
	_, err := reg.Upsert(zone.SafeZone{
		ID:      "zone-a",
		Name:    "connaught-place",
		Center:  geo.Point{Lat: 28.6129, Lon: 77.2295},
		RadiusM: 2000,
		Type:    zone.TypeTouristArea,
		Active:  true,
	})
	if err != nil {
		t.Fatal(err)
	}
	eng := engine.New(reg, engine.Options{})
	snapshot := func() []sim.EntityStatus {
		return []sim.EntityStatus{{EntityID: "traveler-001", Lat: 28.61, Lon: 77.22}}
	}
	return NewServer(eng, snapshot), eng
}

func TestZoneCRUD(t *testing.T) {
	srv, _ := testServer(t)
	mux := srv.routes()

	body := `{"name":"embassy","center":{"lat":28.5983,"lon":77.1892},"radius_m":1000,"type":"embassy","active":true}`
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/zones", strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("upsert status = %d, body %s", w.Code, w.Body)
	}
	var created zone.SafeZone
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("upsert did not assign an id")
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/zones/"+created.ID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/zones?type=embassy", nil))
	var listed []zone.SafeZone
	if err := json.NewDecoder(w.Body).Decode(&listed); err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 || listed[0].Name != "embassy" {
		t.Errorf("filtered list = %+v", listed)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/zones/"+created.ID, nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/zones/"+created.ID, nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", w.Code)
	}
}

func TestUpsertZoneRejectsBadGeometry(t *testing.T) {
	srv, _ := testServer(t)
	mux := srv.routes()

	body := `{"name":"bad","center":{"lat":99,"lon":0},"radius_m":100,"type":"custom","active":true}`
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/zones", strings.NewReader(body)))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid center, got %d", w.Code)
	}
}

func TestEntitiesSnapshot(t *testing.T) {
	srv, _ := testServer(t)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/entities", nil))
	var got []sim.EntityStatus
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].EntityID != "traveler-001" {
		t.Errorf("snapshot = %+v", got)
	}
}

func TestEventsAndResolve(t *testing.T) {
	srv, eng := testServer(t)
	mux := srv.routes()

	// Inside the zone, then far away: exit + violation recorded.
	for _, p := range []geo.Point{{Lat: 28.6129, Lon: 77.2295}, {Lat: 28.6729, Lon: 77.2295}} {
		if _, err := eng.ProcessLocationUpdate(engine.LocationUpdate{
			EntityID: "t1", Point: p, Timestamp: time.Now(), Source: "test",
		}); err != nil {
			t.Fatal(err)
		}
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/entities/t1/events", nil))
	var events []track.GeofenceEvent
	if err := json.NewDecoder(w.Body).Decode(&events); err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %+v", events)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/entities/t1/events/"+events[0].ID+"/resolve", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("resolve status = %d", w.Code)
	}
	if got := eng.Events("t1"); !got[0].Resolved {
		t.Error("event not marked resolved")
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/entities/t1/events/missing/resolve", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("resolve missing event status = %d", w.Code)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	srv, eng := testServer(t)
	for i := 0; i < 5; i++ {
		if _, err := eng.ProcessLocationUpdate(engine.LocationUpdate{
			EntityID: "t1",
			Point:    geo.Point{Lat: 28.61 + float64(i)*0.001, Lon: 77.22},
			Source:   "test",
		}); err != nil {
			t.Fatal(err)
		}
	}

	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/entities/t1/history?limit=3", nil))
	var got []track.LocationSample
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 samples, got %d", len(got))
	}
}

func TestCheckEndpoint(t *testing.T) {
	srv, _ := testServer(t)
	mux := srv.routes()

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/check",
		strings.NewReader(`{"lat":28.6129,"lon":77.2295}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("check status = %d", w.Code)
	}
	var m zone.Membership
	if err := json.NewDecoder(w.Body).Decode(&m); err != nil {
		t.Fatal(err)
	}
	if len(m.Containing) != 1 || m.Containing[0].ID != "zone-a" {
		t.Errorf("membership = %+v", m)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/check",
		strings.NewReader(`{"lat":99,"lon":0}`)))
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid point status = %d", w.Code)
	}
}

func TestAnomaliesEndpoint(t *testing.T) {
	srv, _ := testServer(t)
	mux := srv.routes()

	// Speed over the critical threshold must score a movement verdict.
	body := `{"entity_id":"t1","ts":"2026-08-01T12:00:00Z","speed_kmh":250,"moving":true}`
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/anomalies", strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("anomalies status = %d, body %s", w.Code, w.Body)
	}
	var verdicts []anomaly.Verdict
	if err := json.NewDecoder(w.Body).Decode(&verdicts); err != nil {
		t.Fatal(err)
	}
	var movement *anomaly.Verdict
	for i := range verdicts {
		if verdicts[i].Type == anomaly.VerdictMovement {
			movement = &verdicts[i]
		}
	}
	if movement == nil || movement.Severity != track.SeverityCritical {
		t.Errorf("expected a critical movement verdict, got %+v", verdicts)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/anomalies", strings.NewReader(`{}`)))
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing entity_id status = %d", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := testServer(t)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", w.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("healthz body = %v", body)
	}
}
