package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"pos-dashboard/internal/models"
	"pos-dashboard/internal/services"
	"github.com/starfederation/datastar-go/datastar"
)

const maxTableRows = 50

var paymentTableTemplate = template.Must(template.New("paymentTable").Parse(`
<div id="payments-content">
<table class="modern-table">
<thead><tr><th>Payment Method</th><th>Orders</th><th>Revenue</th><th>Share</th></tr></thead>
<tbody>
{{range $i, $item := .Data}}{{if lt $i $.MaxRows}}<tr>
<td>{{.Method}}</td>
<td>{{.OrderCount}}</td>
<td><strong>${{printf "%.2f" .TotalRevenue}}</strong></td>
<td><span class="share-badge">{{.SharePercent}}%</span></td>
</tr>{{end}}{{end}}
</tbody>
</table>
</div>`))

var insightsTemplate = template.Must(template.New("insights").Parse(`
<div id="insights-content">
<div class="insight-card">Top seller: <strong>{{.TopProduct.Name}}</strong> (${{printf "%.2f" .TopProduct.TotalRevenue}})</div>
<div class="insight-card">Peak hour: <strong>{{.PeakHour.Hour}}:00</strong> ({{.PeakHour.OrderCount}} orders)</div>
<div class="insight-card">Orders per customer: <strong>{{printf "%.2f" .OrdersPerCustomer}}</strong></div>
</div>`))

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

type templateData struct {
	Data    interface{}
	MaxRows int
}

func (h *SSEHandlers) renderPaymentTable(data []models.PaymentAggregate) (string, error) {
	var buf strings.Builder

	// Limit data slice to avoid processing unnecessary records
	if len(data) > maxTableRows {
		data = data[:maxTableRows]
	}

	tmplData := templateData{Data: data, MaxRows: maxTableRows}
	err := paymentTableTemplate.Execute(&buf, tmplData)
	return buf.String(), err
}

func (h *SSEHandlers) renderInsights(insights models.Insights) (string, error) {
	var buf strings.Builder
	err := insightsTemplate.Execute(&buf, insights)
	return buf.String(), err
}

func (h *SSEHandlers) HandlePayments(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	html, err := h.renderPaymentTable(h.analytics.Payments())
	if err != nil {
		h.logger.Error("render payment table", "error", err)
		return
	}

	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleProducts(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	jsonData, err := json.Marshal(map[string]any{
		"productsData": h.analytics.Products(),
	})
	if err != nil {
		h.logger.Error("marshal products data", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	sse.PatchElements(`<div id="products-content">✅ Product revenue chart data loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleHourly(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	jsonData, err := json.Marshal(map[string]any{
		"hourlyData": h.analytics.Hourly(),
	})
	if err != nil {
		h.logger.Error("marshal hourly data", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	sse.PatchElements(`<div id="hourly-content">✅ Hourly trend chart data loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleFrequency(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	jsonData, err := json.Marshal(map[string]any{
		"frequencyData":   h.analytics.Frequency(),
		"priceVolumeData": h.analytics.PriceVolume(),
	})
	if err != nil {
		h.logger.Error("marshal frequency data", "error", err)
		return
	}
	sse.PatchSignals(jsonData)
	sse.PatchElements(`<div id="frequency-content">✅ Customer frequency chart data loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleInsights(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	html, err := h.renderInsights(h.analytics.Insights())
	if err != nil {
		h.logger.Error("render insights", "error", err)
		return
	}
	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	// Re-render the server-side panels
	paymentsHTML, err := h.renderPaymentTable(h.analytics.Payments())
	if err != nil {
		h.logger.Error("render payment table", "error", err)
		return
	}
	sse.PatchElements(paymentsHTML)

	insightsHTML, err := h.renderInsights(h.analytics.Insights())
	if err != nil {
		h.logger.Error("render insights", "error", err)
		return
	}
	sse.PatchElements(insightsHTML)

	// Send all chart signals in one call
	allSignals, err := json.Marshal(map[string]any{
		"productsData":    h.analytics.Products(),
		"hourlyData":      h.analytics.Hourly(),
		"frequencyData":   h.analytics.Frequency(),
		"priceVolumeData": h.analytics.PriceVolume(),
	})
	if err != nil {
		h.logger.Error("marshal all signals data", "error", err)
		return
	}
	sse.PatchSignals(allSignals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
