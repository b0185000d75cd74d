package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pos-dashboard/internal/models"
	"pos-dashboard/internal/services"
)

func createTestAnalytics(t *testing.T) *services.Analytics {
	t.Helper()
	a := services.NewAnalytics()
	testData := []models.SalesRecord{
		{
			Date:          "2024-03-01",
			Timestamp:     time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC),
			PaymentMethod: "cash",
			CustomerID:    "c1",
			Amount:        3.00,
			ProductName:   "Latte",
		},
		{
			Date:          "2024-03-01",
			Timestamp:     time.Date(2024, 3, 1, 8, 20, 0, 0, time.UTC),
			PaymentMethod: "card",
			CustomerID:    "c2",
			Amount:        3.00,
			ProductName:   "Latte",
		},
		{
			Date:          "2024-03-01",
			Timestamp:     time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC),
			PaymentMethod: "cash",
			CustomerID:    "c1",
			Amount:        2.00,
			ProductName:   "Espresso",
		},
	}
	if err := a.SetRecords(testData); err != nil {
		t.Fatalf("SetRecords() failed: %v", err)
	}
	return a
}

func TestNewAPIHandlers(t *testing.T) {
	analytics := createTestAnalytics(t)
	logger := slog.Default()
	handlers := NewAPIHandlers(analytics, logger)

	if handlers == nil {
		t.Fatal("NewAPIHandlers() returned nil")
	}

	if handlers.analytics != analytics {
		t.Error("NewAPIHandlers() should set analytics field")
	}
}

func TestAPIHandlers_HandleSummary(t *testing.T) {
	analytics := createTestAnalytics(t)
	logger := slog.Default()
	handlers := NewAPIHandlers(analytics, logger)

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	w := httptest.NewRecorder()

	handlers.HandleSummary(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected content-type 'application/json', got %q", ct)
	}

	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=300" {
		t.Errorf("expected cache-control 'public, max-age=300', got %q", cc)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if success, ok := response["success"].(bool); !ok || !success {
		t.Error("expected success=true in response")
	}

	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatal("expected summary object in response")
	}
	if orders, ok := data["total_orders"].(float64); !ok || orders != 3 {
		t.Errorf("expected total_orders 3, got %v", data["total_orders"])
	}
	if revenue, ok := data["total_revenue"].(float64); !ok || revenue != 8.0 {
		t.Errorf("expected total_revenue 8.0, got %v", data["total_revenue"])
	}
}

func TestAPIHandlers_HandleInsights(t *testing.T) {
	analytics := createTestAnalytics(t)
	logger := slog.Default()
	handlers := NewAPIHandlers(analytics, logger)

	req := httptest.NewRequest(http.MethodGet, "/api/insights", nil)
	w := httptest.NewRecorder()

	handlers.HandleInsights(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatal("expected insights object in response")
	}

	topProduct, ok := data["top_product"].(map[string]interface{})
	if !ok {
		t.Fatal("expected top_product object in response")
	}
	if name, ok := topProduct["name"].(string); !ok || name != "Latte" {
		t.Errorf("expected top product Latte, got %v", topProduct["name"])
	}

	peakHour, ok := data["peak_hour"].(map[string]interface{})
	if !ok {
		t.Fatal("expected peak_hour object in response")
	}
	if hour, ok := peakHour["hour"].(float64); !ok || hour != 8 {
		t.Errorf("expected peak hour 8, got %v", peakHour["hour"])
	}
}

func TestAPIHandlers_AggregateEndpoints(t *testing.T) {
	analytics := createTestAnalytics(t)
	logger := slog.Default()
	handlers := NewAPIHandlers(analytics, logger)

	tests := []struct {
		name    string
		handler http.HandlerFunc
		path    string
		wantLen int
	}{
		{"products", handlers.HandleProducts, "/api/products", 2},
		{"hourly", handlers.HandleHourly, "/api/hourly", 2},
		{"payments", handlers.HandlePayments, "/api/payments", 2},
		{"frequency", handlers.HandleFrequency, "/api/frequency", 2},
		{"price-volume", handlers.HandlePriceVolume, "/api/price-volume", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			tt.handler(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
			}

			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected content-type 'application/json', got %q", ct)
			}

			if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=300" {
				t.Errorf("expected cache-control 'public, max-age=300', got %q", cc)
			}

			var response map[string]interface{}
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode JSON: %v", err)
			}

			if success, ok := response["success"].(bool); !ok || !success {
				t.Error("expected success=true in response")
			}

			data, ok := response["data"].([]interface{})
			if !ok {
				t.Fatal("expected data array in response")
			}
			if len(data) != tt.wantLen {
				t.Errorf("expected %d entries, got %d", tt.wantLen, len(data))
			}
		})
	}
}

func TestAPIHandlers_NoDataLoaded(t *testing.T) {
	analytics := services.NewAnalytics()
	logger := slog.Default()
	handlers := NewAPIHandlers(analytics, logger)

	endpoints := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"summary", handlers.HandleSummary},
		{"products", handlers.HandleProducts},
		{"hourly", handlers.HandleHourly},
		{"payments", handlers.HandlePayments},
		{"frequency", handlers.HandleFrequency},
		{"price-volume", handlers.HandlePriceVolume},
		{"insights", handlers.HandleInsights},
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()

			endpoint.handler(w, req)

			if w.Code != http.StatusNotFound {
				t.Errorf("expected status %d without loaded data, got %d", http.StatusNotFound, w.Code)
			}

			var response map[string]interface{}
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode JSON: %v", err)
			}

			if success, ok := response["success"].(bool); !ok || success {
				t.Error("expected success=false in error response")
			}
		})
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	analytics := createTestAnalytics(t)
	logger := slog.Default()
	handlers := NewAPIHandlers(analytics, logger)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handlers.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected content-type 'application/json', got %q", ct)
	}

	// Health endpoint should NOT have cache-control header
	if cc := w.Header().Get("Cache-Control"); cc != "" {
		t.Errorf("health endpoint should not set cache-control, got %q", cc)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if data, ok := response["data"].(map[string]interface{}); !ok {
		t.Error("expected health data in response")
	} else {
		if status, ok := data["status"].(string); !ok || status != "healthy" {
			t.Errorf("expected status 'healthy', got %q", status)
		}

		if timestamp, ok := data["timestamp"].(string); !ok || timestamp == "" {
			t.Error("expected non-empty timestamp")
		} else {
			if _, err := time.Parse(time.RFC3339, timestamp); err != nil {
				t.Errorf("invalid timestamp format: %v", err)
			}
		}
	}
}

func TestAPIHandlers_HandleStats(t *testing.T) {
	analytics := createTestAnalytics(t)
	logger := slog.Default()
	handlers := NewAPIHandlers(analytics, logger)

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()

	handlers.HandleStats(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatal("expected stats object in response")
	}
	if count, ok := data["record_count"].(float64); !ok || count != 3 {
		t.Errorf("expected record_count 3, got %v", data["record_count"])
	}
	if products, ok := data["products"].(float64); !ok || products != 2 {
		t.Errorf("expected 2 products in stats, got %v", data["products"])
	}
}
