package routing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/ports"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *GoogleDirectionsProvider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewGoogleDirectionsProvider("test-key", WithBaseURL(srv.URL), WithRateLimit(0))
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func testRequest() ports.ProviderRouteRequest {
	return ports.ProviderRouteRequest{
		Origin: domain.Coordinates{Lat: 33.45, Lon: -112.07},
		Waypoints: []domain.Coordinates{
			{Lat: 33.50, Lon: -112.00},
			{Lat: 33.40, Lon: -112.10},
		},
		Mode:  "driving",
		Avoid: []string{"tolls"},
	}
}

func TestGoogleDirectionsOptimizeRoute(t *testing.T) {
	var gotQuery map[string]string

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/directions/json" {
			t.Errorf("path = %q, want /directions/json", r.URL.Path)
		}
		q := r.URL.Query()
		gotQuery = map[string]string{
			"origin":      q.Get("origin"),
			"destination": q.Get("destination"),
			"waypoints":   q.Get("waypoints"),
			"mode":        q.Get("mode"),
			"avoid":       q.Get("avoid"),
			"key":         q.Get("key"),
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"routes": [{
				"summary": "I-10",
				"waypoint_order": [1, 0],
				"legs": [
					{"distance": {"value": 1000}, "duration": {"value": 120}},
					{"distance": {"value": 2000}, "duration": {"value": 240}},
					{"distance": {"value": 5000}, "duration": {"value": 600}}
				]
			}]
		}`))
	})

	resp, err := p.OptimizeRoute(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery["origin"] != "33.450000,-112.070000" || gotQuery["destination"] != gotQuery["origin"] {
		t.Fatalf("origin/destination = %q/%q", gotQuery["origin"], gotQuery["destination"])
	}
	if want := "optimize:true|33.500000,-112.000000|33.400000,-112.100000"; gotQuery["waypoints"] != want {
		t.Fatalf("waypoints = %q, want %q", gotQuery["waypoints"], want)
	}
	if gotQuery["mode"] != "driving" || gotQuery["avoid"] != "tolls" || gotQuery["key"] != "test-key" {
		t.Fatalf("unexpected query: %+v", gotQuery)
	}

	if len(resp.WaypointOrder) != 2 || resp.WaypointOrder[0] != 1 || resp.WaypointOrder[1] != 0 {
		t.Fatalf("waypoint order = %v, want [1 0]", resp.WaypointOrder)
	}
	if len(resp.Legs) != 2 {
		t.Fatalf("legs = %d, want 2 (closing leg dropped)", len(resp.Legs))
	}
	if resp.DistanceMeters != 3000 {
		t.Fatalf("distance = %d, want 3000", resp.DistanceMeters)
	}
	if resp.DurationSeconds != 360 {
		t.Fatalf("duration = %d, want 360", resp.DurationSeconds)
	}
}

func TestGoogleDirectionsHTTPError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	})

	_, err := p.OptimizeRoute(context.Background(), testRequest())
	if err == nil {
		t.Fatalf("expected error")
	}

	var he *httpStatusError
	if !errors.As(err, &he) {
		t.Fatalf("expected httpStatusError, got %T: %v", err, err)
	}
	if he.Code != http.StatusServiceUnavailable {
		t.Fatalf("code = %d, want 503", he.Code)
	}
}

func TestGoogleDirectionsNonOKStatus(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "OVER_QUERY_LIMIT", "error_message": "slow down", "routes": []}`))
	})

	_, err := p.OptimizeRoute(context.Background(), testRequest())

	var se *apiStatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected apiStatusError, got %v", err)
	}
	if se.Status != "OVER_QUERY_LIMIT" {
		t.Fatalf("status = %q", se.Status)
	}
}

func TestGoogleDirectionsMalformedBody(t *testing.T) {
	cases := map[string]string{
		"not json":     `<html>`,
		"short order":  `{"status":"OK","routes":[{"waypoint_order":[0],"legs":[{},{},{}]}]}`,
		"too few legs":  `{"status":"OK","routes":[{"waypoint_order":[0,1],"legs":[{}]}]}`,
		"no routes":    `{"status":"OK","routes":[]}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			if _, err := p.OptimizeRoute(context.Background(), testRequest()); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestGoogleDirectionsRejectsTooManyWaypoints(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected")
	})

	req := testRequest()
	req.Waypoints = make([]domain.Coordinates, googleMaxWaypoints+1)

	_, err := p.OptimizeRoute(context.Background(), req)
	if err == nil || !strings.Contains(err.Error(), "exceeds limit") {
		t.Fatalf("expected limit error, got %v", err)
	}
}

func TestNewGoogleDirectionsProviderRequiresKey(t *testing.T) {
	if _, err := NewGoogleDirectionsProvider(""); err == nil {
		t.Fatalf("expected error for empty api key")
	}
}
