package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const dashboardPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>POS Sales Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@main/bundles/datastar.js"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f5f6fa; color: #2d3436; }
header { background: #2d3436; color: #fff; padding: 1rem 2rem; }
main { display: grid; grid-template-columns: repeat(auto-fit, minmax(420px, 1fr)); gap: 1.5rem; padding: 2rem; }
section { background: #fff; border-radius: 8px; padding: 1.25rem; box-shadow: 0 1px 3px rgba(0,0,0,.1); }
.modern-table { width: 100%; border-collapse: collapse; }
.modern-table th, .modern-table td { padding: .5rem .75rem; text-align: left; border-bottom: 1px solid #eee; }
.share-badge, .category-badge { background: #dfe6e9; border-radius: 4px; padding: .1rem .4rem; font-size: .85rem; }
.insight-card { padding: .5rem 0; }
button { background: #0984e3; color: #fff; border: 0; border-radius: 4px; padding: .5rem 1rem; cursor: pointer; }
</style>
</head>
<body>
<header>
<h1>POS Sales Dashboard</h1>
<button data-on-click="@get('/sse/refresh-all')">Refresh all</button>
</header>
<main data-signals="{productsData: [], hourlyData: [], frequencyData: [], priceVolumeData: []}">
<section>
<h2>Payment Methods</h2>
<div id="payments-content" data-on-load="@get('/sse/payments')">Loading…</div>
</section>
<section>
<h2>Revenue by Product</h2>
<div id="products-content" data-on-load="@get('/sse/products')">Loading…</div>
</section>
<section>
<h2>Hourly Trend</h2>
<div id="hourly-content" data-on-load="@get('/sse/hourly')">Loading…</div>
</section>
<section>
<h2>Customer Frequency &amp; Price/Volume</h2>
<div id="frequency-content" data-on-load="@get('/sse/frequency')">Loading…</div>
</section>
<section>
<h2>Insights</h2>
<div id="insights-content" data-on-load="@get('/sse/insights')">Loading…</div>
</section>
</main>
</body>
</html>`

// Dashboard is the single-page shell; every panel loads its own data
// over SSE after the initial render.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardPage)
		return err
	})
}
