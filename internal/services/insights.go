package services

import "pos-dashboard/internal/models"

// ExtractInsights derives the headline facts from a computed result.
// Maxima are resolved by linear scan keeping the first strict maximum,
// so ties favor the earlier entry: first-seen order for products, the
// earliest hour for the peak-hour series.
func ExtractInsights(result *models.AnalyticsResult) models.Insights {
	if result == nil || result.TotalOrders == 0 {
		return models.Insights{}
	}

	top := result.Products[0]
	for _, p := range result.Products[1:] {
		if p.TotalRevenue > top.TotalRevenue {
			top = p
		}
	}

	peak := result.Hourly[0]
	for _, h := range result.Hourly[1:] {
		if h.OrderCount > peak.OrderCount {
			peak = h
		}
	}

	// TotalOrders > 0 guarantees at least one customer.
	return models.Insights{
		TopProduct:        top,
		PeakHour:          peak,
		OrdersPerCustomer: float64(result.TotalOrders) / float64(result.UniqueCustomerCount),
	}
}
