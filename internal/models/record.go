package models

import "time"

// SalesRecord is one validated point-of-sale transaction. Ingestion
// guarantees Amount > 0 and non-empty ProductName/CustomerID before a
// record reaches the analytics engine.
type SalesRecord struct {
	Date          string
	Timestamp     time.Time
	PaymentMethod string
	CustomerID    string
	Amount        float64
	ProductName   string
}

// Hour is the local wall-clock hour (0-23) of the transaction.
func (r SalesRecord) Hour() int {
	return r.Timestamp.Hour()
}

type ProductAggregate struct {
	Name         string  `json:"name"`
	OrderCount   int     `json:"order_count"`
	TotalRevenue float64 `json:"total_revenue"`
	AveragePrice float64 `json:"average_price"`
}

type HourlyAggregate struct {
	Hour         int     `json:"hour"`
	OrderCount   int     `json:"order_count"`
	TotalRevenue float64 `json:"total_revenue"`
}

type PaymentAggregate struct {
	Method       string  `json:"method"`
	OrderCount   int     `json:"order_count"`
	TotalRevenue float64 `json:"total_revenue"`
	SharePercent string  `json:"share_percent"`
}

type FrequencyBucket struct {
	Label         string `json:"label"`
	CustomerCount int    `json:"customer_count"`
}

type PriceVolumePoint struct {
	ProductName  string  `json:"product_name"`
	AveragePrice float64 `json:"average_price"`
	OrderCount   int     `json:"order_count"`
}

// AnalyticsResult is the composite output of one analysis run. It is
// built whole from one input collection and never updated in place.
type AnalyticsResult struct {
	TotalRevenue        float64            `json:"total_revenue"`
	TotalOrders         int                `json:"total_orders"`
	AverageOrderValue   float64            `json:"average_order_value"`
	UniqueCustomerCount int                `json:"unique_customers"`
	Products            []ProductAggregate `json:"products"`
	Hourly              []HourlyAggregate  `json:"hourly"`
	Payments            []PaymentAggregate `json:"payments"`
	Frequency           []FrequencyBucket  `json:"frequency"`
	PriceVolume         []PriceVolumePoint `json:"price_volume"`
}

// Summary is the headline slice of an AnalyticsResult served on its own.
type Summary struct {
	TotalRevenue        float64 `json:"total_revenue"`
	TotalOrders         int     `json:"total_orders"`
	AverageOrderValue   float64 `json:"average_order_value"`
	UniqueCustomerCount int     `json:"unique_customers"`
}

// Insights are the single "best of" facts derived from a result.
type Insights struct {
	TopProduct        ProductAggregate `json:"top_product"`
	PeakHour          HourlyAggregate  `json:"peak_hour"`
	OrdersPerCustomer float64          `json:"orders_per_customer"`
}
