package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"pos-dashboard/internal/models"
	"pos-dashboard/internal/server"
	"pos-dashboard/internal/services"
)

// Test helper to create analytics with test data
func newTestAnalytics(t *testing.T) *services.Analytics {
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

func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	templateHandlers := &server.TemplateHandlers{Dashboard: handleDashboard}
	return server.NewServer(newTestAnalytics(t), logger, templateHandlers)
}

// Integration tests for HTTP routes
func TestServer_Routes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		path           string
		expectedStatus int
		contentType    string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/api/summary", http.StatusOK, "application/json"},
		{"/api/products", http.StatusOK, "application/json"},
		{"/api/hourly", http.StatusOK, "application/json"},
		{"/api/payments", http.StatusOK, "application/json"},
		{"/api/frequency", http.StatusOK, "application/json"},
		{"/api/price-volume", http.StatusOK, "application/json"},
		{"/api/insights", http.StatusOK, "application/json"},
		{"/health", http.StatusOK, "application/json"},
		{"/admin/stats", http.StatusOK, "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", tt.path, nil)

			srv.ServeHTTP(w, r)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}

			ct := w.Header().Get("Content-Type")
			if !strings.Contains(ct, tt.contentType) {
				t.Errorf("content-type = %q, want %q", ct, tt.contentType)
			}

			// Validate JSON responses
			if tt.contentType == "application/json" {
				var result any
				if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
					t.Errorf("invalid json: %v", err)
				}
			}
		})
	}
}

// Test JSON API responses
func TestServer_JSONResponse(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/products", nil)
	srv.ServeHTTP(w, r)

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if success, ok := response["success"].(bool); !ok || !success {
		t.Error("expected success=true in response")
	}

	data, ok := response["data"].([]interface{})
	if !ok {
		t.Fatalf("expected data array in response")
	}

	if len(data) == 0 {
		t.Error("expected products data")
		return
	}

	// Verify structure of first item
	if item, ok := data[0].(map[string]interface{}); ok {
		if name, hasName := item["name"].(string); !hasName || name == "" {
			t.Error("product should have non-empty name field")
		}
		if count, hasCount := item["order_count"].(float64); !hasCount || count <= 0 {
			t.Error("product should have positive order_count field")
		}
		if revenue, hasRevenue := item["total_revenue"].(float64); !hasRevenue || revenue <= 0 {
			t.Error("product should have positive total_revenue field")
		}
		if _, hasAvg := item["average_price"].(float64); !hasAvg {
			t.Error("product should have average_price field")
		}
	} else {
		t.Error("invalid product structure")
	}
}

// Test Server-Sent Events routes
func TestServer_SSERoutes(t *testing.T) {
	srv := newTestServer(t)

	sseRoutes := []string{
		"/sse/payments",
		"/sse/products",
		"/sse/hourly",
		"/sse/frequency",
		"/sse/insights",
		"/sse/refresh-all",
	}

	for _, route := range sseRoutes {
		t.Run(route, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", route, nil)

			srv.ServeHTTP(w, r)

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
			}

			// Check for SSE headers
			if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
				t.Errorf("content-type = %q, should contain 'text/event-stream'", ct)
			}

			if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
				t.Errorf("cache-control = %q, want 'no-cache'", cc)
			}
		})
	}
}

// Test error handling for invalid methods
func TestServer_ErrorHandling(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{"POST", "/api/summary", http.StatusMethodNotAllowed},
		{"PUT", "/", http.StatusMethodNotAllowed},
		{"DELETE", "/health", http.StatusMethodNotAllowed},
		{"PATCH", "/api/products", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(tt.method, tt.path, nil)

			srv.ServeHTTP(w, r)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

// Test dashboard template rendering
func TestDashboardTemplate(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)

	// Test the template handler directly
	handleDashboard(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	if !strings.Contains(body, "POS Sales Dashboard") {
		t.Error("dashboard should contain title")
	}

	// Check for key dashboard panels
	expectedComponents := []string{
		"Payment Methods",
		"Revenue by Product",
		"Hourly Trend",
		"Customer Frequency",
		"Insights",
	}

	for _, component := range expectedComponents {
		if !strings.Contains(body, component) {
			t.Errorf("dashboard should contain '%s'", component)
		}
	}
}
