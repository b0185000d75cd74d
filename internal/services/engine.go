package services

import (
	"fmt"
	"math"

	"pos-dashboard/internal/models"
)

// EmptyInputError signals that the engine was handed zero records.
// The caller recovers by supplying data, never by retrying the call.
type EmptyInputError struct{}

func (e *EmptyInputError) Error() string {
	return "no sales records to analyze"
}

// InvalidRecordError reports a record that violates the ingestion
// contract. The engine refuses such input instead of coercing it.
type InvalidRecordError struct {
	Index  int
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid record at index %d: %s", e.Index, e.Reason)
}

// accumulator holds the per-key running totals of one grouping pass.
type accumulator struct {
	count   int
	revenue float64
}

// frequencyLabel maps a customer's total order count to its bucket.
func frequencyLabel(orders int) string {
	switch {
	case orders <= 1:
		return "1 order"
	case orders <= 3:
		return "2-3 orders"
	case orders <= 5:
		return "4-5 orders"
	default:
		return "6+ orders"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Analyze computes every aggregate view over one collection of sales
// records in a single pass. Product and payment groups are emitted in
// the order their keys were first seen; hourly groups are emitted in
// ascending hour order with zero-order hours omitted. The result is
// built whole; there is no partial output on error.
func Analyze(records []models.SalesRecord) (*models.AnalyticsResult, error) {
	if len(records) == 0 {
		return nil, &EmptyInputError{}
	}

	var (
		productOrder  []string
		paymentOrder  []string
		customerOrder []string
	)
	productGroups := make(map[string]*accumulator)
	paymentGroups := make(map[string]*accumulator)
	hourGroups := make(map[int]*accumulator)
	customerCounts := make(map[string]int)

	totalRevenue := 0.0

	for i, rec := range records {
		if err := validateRecord(i, rec); err != nil {
			return nil, err
		}

		totalRevenue += rec.Amount

		pg, ok := productGroups[rec.ProductName]
		if !ok {
			pg = &accumulator{}
			productGroups[rec.ProductName] = pg
			productOrder = append(productOrder, rec.ProductName)
		}
		pg.count++
		pg.revenue += rec.Amount

		mg, ok := paymentGroups[rec.PaymentMethod]
		if !ok {
			mg = &accumulator{}
			paymentGroups[rec.PaymentMethod] = mg
			paymentOrder = append(paymentOrder, rec.PaymentMethod)
		}
		mg.count++
		mg.revenue += rec.Amount

		hour := rec.Hour()
		hg, ok := hourGroups[hour]
		if !ok {
			hg = &accumulator{}
			hourGroups[hour] = hg
		}
		hg.count++
		hg.revenue += rec.Amount

		// Customer identity is the raw string, case-sensitive and
		// unnormalized. Whitespace or case variants count as
		// distinct customers.
		if _, ok := customerCounts[rec.CustomerID]; !ok {
			customerOrder = append(customerOrder, rec.CustomerID)
		}
		customerCounts[rec.CustomerID]++
	}

	totalOrders := len(records)

	products := make([]models.ProductAggregate, 0, len(productOrder))
	priceVolume := make([]models.PriceVolumePoint, 0, len(productOrder))
	for _, name := range productOrder {
		g := productGroups[name]
		avg := round2(g.revenue / float64(g.count))
		products = append(products, models.ProductAggregate{
			Name:         name,
			OrderCount:   g.count,
			TotalRevenue: g.revenue,
			AveragePrice: avg,
		})
		priceVolume = append(priceVolume, models.PriceVolumePoint{
			ProductName:  name,
			AveragePrice: avg,
			OrderCount:   g.count,
		})
	}

	hourly := make([]models.HourlyAggregate, 0, len(hourGroups))
	for hour := 0; hour < 24; hour++ {
		g, ok := hourGroups[hour]
		if !ok {
			continue
		}
		hourly = append(hourly, models.HourlyAggregate{
			Hour:         hour,
			OrderCount:   g.count,
			TotalRevenue: g.revenue,
		})
	}

	payments := make([]models.PaymentAggregate, 0, len(paymentOrder))
	for _, method := range paymentOrder {
		g := paymentGroups[method]
		share := 100 * float64(g.count) / float64(totalOrders)
		payments = append(payments, models.PaymentAggregate{
			Method:       method,
			OrderCount:   g.count,
			TotalRevenue: g.revenue,
			SharePercent: fmt.Sprintf("%.1f", share),
		})
	}

	var bucketOrder []string
	bucketCounts := make(map[string]int)
	for _, id := range customerOrder {
		label := frequencyLabel(customerCounts[id])
		if _, ok := bucketCounts[label]; !ok {
			bucketOrder = append(bucketOrder, label)
		}
		bucketCounts[label]++
	}
	frequency := make([]models.FrequencyBucket, 0, len(bucketOrder))
	for _, label := range bucketOrder {
		frequency = append(frequency, models.FrequencyBucket{
			Label:         label,
			CustomerCount: bucketCounts[label],
		})
	}

	return &models.AnalyticsResult{
		TotalRevenue:        totalRevenue,
		TotalOrders:         totalOrders,
		AverageOrderValue:   totalRevenue / float64(totalOrders),
		UniqueCustomerCount: len(customerOrder),
		Products:            products,
		Hourly:              hourly,
		Payments:            payments,
		Frequency:           frequency,
		PriceVolume:         priceVolume,
	}, nil
}

func validateRecord(index int, rec models.SalesRecord) error {
	switch {
	case rec.Amount <= 0:
		return &InvalidRecordError{Index: index, Reason: fmt.Sprintf("amount must be positive, got %v", rec.Amount)}
	case rec.ProductName == "":
		return &InvalidRecordError{Index: index, Reason: "empty product name"}
	case rec.CustomerID == "":
		return &InvalidRecordError{Index: index, Reason: "empty customer id"}
	}
	return nil
}
