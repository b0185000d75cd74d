package services

import (
	"bufio"
	"context"
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"pos-dashboard/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	batchSize    = 10000
	maxWorkers   = 10
	cacheVersion = "v1"
	cacheDir     = ".cache"

	csvColumns      = 6
	timestampLayout = "2006-01-02 15:04:05"
)

// snapshot is one fully computed analysis run. It is replaced whole;
// readers never observe a partially updated result.
type snapshot struct {
	Result       *models.AnalyticsResult
	Insights     models.Insights
	RecordCount  int64
	SkippedRows  int64
	LastModified time.Time
}

type Analytics struct {
	mu               sync.RWMutex
	snap             *snapshot
	csvPath          string
	recordsProcessed atomic.Int64
	logger           *slog.Logger
}

// RecordsProcessed reports how many valid records the last CSV load
// produced, without taking the snapshot lock.
func (a *Analytics) RecordsProcessed() int64 {
	return a.recordsProcessed.Load()
}

func NewAnalytics() *Analytics {
	return &Analytics{
		snap:   &snapshot{},
		logger: slog.Default(),
	}
}

// SetRecords runs one analysis over an in-memory collection and swaps
// in the resulting snapshot. Used by tests and embedded callers that
// bypass CSV ingestion.
func (a *Analytics) SetRecords(records []models.SalesRecord) error {
	result, err := Analyze(records)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.snap = &snapshot{
		Result:       result,
		Insights:     ExtractInsights(result),
		RecordCount:  int64(len(records)),
		LastModified: time.Now(),
	}
	return nil
}

func (a *Analytics) LoadFromCSV(ctx context.Context, filename string) error {
	a.csvPath = filename

	if cached, err := a.loadFromCache(filename); err == nil {
		fileInfo, err := os.Stat(filename)
		if err == nil && fileInfo.ModTime().Before(cached.LastModified) {
			a.mu.Lock()
			a.snap = cached
			a.mu.Unlock()
			a.logger.Info("loaded from cache", "records", cached.RecordCount)
			return nil
		}
	}

	start := time.Now()
	a.logger.Info("processing CSV file", "filename", filename)

	records, skipped, err := a.streamParseCSV(ctx, filename)
	if err != nil {
		return fmt.Errorf("process csv: %w", err)
	}

	result, err := Analyze(records)
	if err != nil {
		return fmt.Errorf("analyze records: %w", err)
	}

	a.mu.Lock()
	a.snap = &snapshot{
		Result:       result,
		Insights:     ExtractInsights(result),
		RecordCount:  int64(len(records)),
		SkippedRows:  skipped,
		LastModified: time.Now(),
	}
	a.mu.Unlock()
	a.recordsProcessed.Store(int64(len(records)))

	if err := a.saveToCache(filename); err != nil {
		a.logger.Warn("failed to save cache", "error", err)
	}

	duration := time.Since(start)
	a.logger.Info("csv processing complete",
		"records", len(records),
		"skipped", skipped,
		"duration", duration,
		"rate", fmt.Sprintf("%.0f records/sec", float64(len(records))/duration.Seconds()))

	return nil
}

// streamParseCSV reads the source line by line and parses batches
// concurrently. Each batch is parsed into an index-aligned slice so
// valid records keep their input order; the engine's first-seen
// grouping contract depends on that order surviving the parse.
func (a *Analytics) streamParseCSV(ctx context.Context, filename string) ([]models.SalesRecord, int64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, 0, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 10*1024*1024) // 10MB buffer

	// Skip header
	if !scanner.Scan() {
		return nil, 0, fmt.Errorf("empty file")
	}

	var records []models.SalesRecord
	var skipped int64

	batch := make([]string, 0, batchSize)

	flush := func() error {
		parsed, batchSkipped, err := parseBatch(ctx, batch)
		if err != nil {
			return err
		}
		records = append(records, parsed...)
		skipped += batchSkipped
		batch = batch[:0]
		return nil
	}

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		default:
		}

		batch = append(batch, scanner.Text())

		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return nil, 0, err
			}
		}
	}

	if len(batch) > 0 {
		if err := flush(); err != nil {
			return nil, 0, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan error: %w", err)
	}

	if len(records) == 0 {
		return nil, 0, fmt.Errorf("no valid records found")
	}

	return records, skipped, nil
}

func parseBatch(ctx context.Context, batch []string) ([]models.SalesRecord, int64, error) {
	type parsedRow struct {
		rec   models.SalesRecord
		valid bool
	}
	rows := make([]parsedRow, len(batch))

	var wg errgroup.Group
	wg.SetLimit(maxWorkers)

	for i, line := range batch {
		wg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			rec, err := parseSalesRecord(strings.Split(line, ","))
			if err != nil {
				return nil // Skip invalid rows, slot stays marked invalid
			}
			rows[i] = parsedRow{rec: rec, valid: true}
			return nil
		})
	}

	if err := wg.Wait(); err != nil {
		return nil, 0, err
	}

	records := make([]models.SalesRecord, 0, len(rows))
	var skipped int64
	for _, row := range rows {
		if row.valid {
			records = append(records, row.rec)
		} else {
			skipped++
		}
	}
	return records, skipped, nil
}

// parseSalesRecord coerces one delimited row into a typed record.
// Expected columns: date, datetime, payment_method, customer_id,
// amount, product_name. Rows violating the input contract are rejected
// here so the engine only ever sees valid records.
func parseSalesRecord(fields []string) (models.SalesRecord, error) {
	if len(fields) < csvColumns {
		return models.SalesRecord{}, fmt.Errorf("insufficient columns")
	}

	timestamp, err := time.Parse(timestampLayout, strings.TrimSpace(fields[1]))
	if err != nil {
		return models.SalesRecord{}, err
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64)
	if err != nil {
		return models.SalesRecord{}, err
	}
	if amount <= 0 {
		return models.SalesRecord{}, fmt.Errorf("non-positive amount: %v", amount)
	}

	customerID := strings.TrimSpace(fields[3])
	if customerID == "" {
		return models.SalesRecord{}, fmt.Errorf("empty customer id")
	}

	productName := strings.TrimSpace(fields[5])
	if productName == "" {
		return models.SalesRecord{}, fmt.Errorf("empty product name")
	}

	return models.SalesRecord{
		Date:          strings.TrimSpace(fields[0]),
		Timestamp:     timestamp,
		PaymentMethod: strings.TrimSpace(fields[2]),
		CustomerID:    customerID,
		Amount:        amount,
		ProductName:   productName,
	}, nil
}

// Cache management
func (a *Analytics) getCacheFilename(csvPath string) string {
	return fmt.Sprintf("%s/%s_%s.gob", cacheDir, strings.ReplaceAll(csvPath, "/", "_"), cacheVersion)
}

func (a *Analytics) saveToCache(csvPath string) error {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return err
	}

	filename := a.getCacheFilename(csvPath)
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	a.mu.RLock()
	defer a.mu.RUnlock()

	encoder := gob.NewEncoder(file)
	return encoder.Encode(a.snap)
}

func (a *Analytics) loadFromCache(csvPath string) (*snapshot, error) {
	filename := a.getCacheFilename(csvPath)
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var snap snapshot
	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&snap); err != nil {
		return nil, err
	}

	return &snap, nil
}

// Loaded reports whether a result snapshot is available to serve.
func (a *Analytics) Loaded() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap.Result != nil
}

// Fast query methods - O(1) lookups from the precomputed snapshot
func (a *Analytics) Summary() models.Summary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.snap.Result == nil {
		return models.Summary{}
	}
	return models.Summary{
		TotalRevenue:        a.snap.Result.TotalRevenue,
		TotalOrders:         a.snap.Result.TotalOrders,
		AverageOrderValue:   a.snap.Result.AverageOrderValue,
		UniqueCustomerCount: a.snap.Result.UniqueCustomerCount,
	}
}

func (a *Analytics) Products() []models.ProductAggregate {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.snap.Result == nil {
		return nil
	}
	return a.snap.Result.Products
}

func (a *Analytics) Hourly() []models.HourlyAggregate {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.snap.Result == nil {
		return nil
	}
	return a.snap.Result.Hourly
}

func (a *Analytics) Payments() []models.PaymentAggregate {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.snap.Result == nil {
		return nil
	}
	return a.snap.Result.Payments
}

func (a *Analytics) Frequency() []models.FrequencyBucket {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.snap.Result == nil {
		return nil
	}
	return a.snap.Result.Frequency
}

func (a *Analytics) PriceVolume() []models.PriceVolumePoint {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.snap.Result == nil {
		return nil
	}
	return a.snap.Result.PriceVolume
}

func (a *Analytics) Insights() models.Insights {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap.Insights
}

// Utility method for monitoring
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := map[string]any{
		"record_count":   a.snap.RecordCount,
		"skipped_rows":   a.snap.SkippedRows,
		"last_processed": a.snap.LastModified,
	}
	if a.snap.Result != nil {
		stats["products"] = len(a.snap.Result.Products)
		stats["payment_methods"] = len(a.snap.Result.Payments)
		stats["active_hours"] = len(a.snap.Result.Hourly)
		stats["unique_customers"] = a.snap.Result.UniqueCustomerCount
	}
	return stats
}
