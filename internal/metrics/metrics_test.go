package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flockpulse/flockpulse/internal/models"
)

func TestHTTPCollectorRecordsMetrics(t *testing.T) {
	collector, err := NewHTTPCollector()
	if err != nil {
		t.Fatalf("NewHTTPCollector returned error: %v", err)
	}

	handlerInvoked := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerInvoked = true
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("ok"))
	})

	instrumented := collector.InstrumentHandler(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()

	instrumented.ServeHTTP(rr, req)

	if !handlerInvoked {
		t.Fatal("expected handler to be invoked")
	}

	if rr.Code != http.StatusAccepted {
		t.Fatalf("unexpected status code: %d", rr.Code)
	}

	body := scrape(t, collector)
	if !strings.Contains(body, `flockpulse_http_requests_total{method="GET",path="/test",status="202"} 1`) {
		t.Fatalf("requests_total metric not recorded, body=%q", body)
	}

	if !strings.Contains(body, `flockpulse_http_request_duration_seconds_count{method="GET",path="/test",status="202"} 1`) {
		t.Fatalf("request_duration_seconds_count metric not recorded, body=%q", body)
	}
}

func TestTrackerCollectorRecordsMetrics(t *testing.T) {
	httpCollector, err := NewHTTPCollector()
	if err != nil {
		t.Fatalf("NewHTTPCollector returned error: %v", err)
	}

	collector, err := NewTrackerCollector(httpCollector.Registry())
	if err != nil {
		t.Fatalf("NewTrackerCollector returned error: %v", err)
	}

	collector.ObserveFetch(models.PlatformTwitter, true)
	collector.ObserveFetch(models.PlatformTwitter, true)
	collector.ObserveFetch(models.PlatformTikTok, false)
	collector.ObserveAccountUpdate(true)
	collector.ObserveAccountUpdate(false)
	collector.SetFollowers(models.PlatformTwitter, "nasa", 12345)

	body := scrape(t, httpCollector)

	if !strings.Contains(body, `flockpulse_tracker_fetches_total{outcome="success",platform="twitter"} 2`) {
		t.Fatalf("fetches_total success not recorded, body=%q", body)
	}
	if !strings.Contains(body, `flockpulse_tracker_fetches_total{outcome="failure",platform="tiktok"} 1`) {
		t.Fatalf("fetches_total failure not recorded, body=%q", body)
	}
	if !strings.Contains(body, `flockpulse_tracker_account_updates_total{outcome="success"} 1`) {
		t.Fatalf("account_updates_total success not recorded, body=%q", body)
	}
	if !strings.Contains(body, `flockpulse_tracker_account_updates_total{outcome="failure"} 1`) {
		t.Fatalf("account_updates_total failure not recorded, body=%q", body)
	}
	if !strings.Contains(body, `flockpulse_tracker_followers{platform="twitter",username="nasa"} 12345`) {
		t.Fatalf("followers gauge not recorded, body=%q", body)
	}
}

func TestTrackerCollectorRejectsDoubleRegistration(t *testing.T) {
	httpCollector, err := NewHTTPCollector()
	if err != nil {
		t.Fatalf("NewHTTPCollector returned error: %v", err)
	}

	if _, err := NewTrackerCollector(httpCollector.Registry()); err != nil {
		t.Fatalf("first registration returned error: %v", err)
	}
	if _, err := NewTrackerCollector(httpCollector.Registry()); err == nil {
		t.Fatal("expected error registering the same metrics twice")
	}
}

func scrape(t *testing.T, collector *HTTPCollector) string {
	t.Helper()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected metrics handler to return 200, got %d", rr.Code)
	}
	return rr.Body.String()
}
