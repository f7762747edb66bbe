// Package metrics reads the derived analytics endpoints. These are plain
// request-scoped reads: no collection cache, errors always propagate to the
// caller.
package metrics

import (
	"context"
	"net/url"
	"time"

	"github.com/laterrassa/admin-client/internal/envelope"
	"github.com/laterrassa/admin-client/internal/gateway"
)

type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Range bounds a query in time. Endpoints disagree on formatting: the sales
// family takes date-only values, the hourly family full timestamps. Each
// method uses the format its endpoint expects; do not unify them.
type Range struct {
	From time.Time
	To   time.Time
}

func (r Range) dateParams() url.Values {
	v := url.Values{}
	v.Set("from", r.From.Format("2006-01-02"))
	v.Set("to", r.To.Format("2006-01-02"))
	return v
}

func (r Range) timestampParams() url.Values {
	v := url.Values{}
	v.Set("from", r.From.Format(time.RFC3339))
	v.Set("to", r.To.Format(time.RFC3339))
	return v
}

type SalesPoint struct {
	Date   string  `json:"date"`
	Orders int     `json:"orders"`
	Total  float64 `json:"total"`
}

type ProductRank struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
}

type WaiterPerformance struct {
	WaiterID      string  `json:"waiterId"`
	Name          string  `json:"name"`
	Orders        int     `json:"orders"`
	Total         float64 `json:"total"`
	AverageTicket float64 `json:"averageTicket"`
}

type PeakHour struct {
	Hour   int `json:"hour"`
	Orders int `json:"orders"`
}

type FinancialSummary struct {
	Revenue       float64 `json:"revenue"`
	Orders        int     `json:"orders"`
	AverageTicket float64 `json:"averageTicket"`
}

type HourlyFlowPoint struct {
	Hour      int `json:"hour"`
	Customers int `json:"customers"`
}

type TableSummary struct {
	Total    int `json:"total"`
	Free     int `json:"free"`
	Occupied int `json:"occupied"`
}

type RealtimeSnapshot struct {
	OccupiedTables int     `json:"occupiedTables"`
	ActiveWaiters  int     `json:"activeWaiters"`
	OpenTotal      float64 `json:"openTotal"`
}

type Reader struct {
	gw *gateway.Client
}

func NewReader(gw *gateway.Client) *Reader {
	return &Reader{gw: gw}
}

// Sales returns per-period revenue within the range. Date-only params.
func (r *Reader) Sales(ctx context.Context, rng Range, period Period) ([]SalesPoint, error) {
	params := rng.dateParams()
	if period != "" {
		params.Set("period", string(period))
	}
	return list[SalesPoint](ctx, r, "/metrics/sales", params)
}

// Products ranks products by quantity sold. Date-only params.
func (r *Reader) Products(ctx context.Context, rng Range) ([]ProductRank, error) {
	return list[ProductRank](ctx, r, "/metrics/products", rng.dateParams())
}

// Waiters returns per-waiter performance for waiters with sales in range.
func (r *Reader) Waiters(ctx context.Context, rng Range, period Period) ([]WaiterPerformance, error) {
	params := rng.dateParams()
	if period != "" {
		params.Set("period", string(period))
	}
	return list[WaiterPerformance](ctx, r, "/metrics/waiters", params)
}

// AllWaiters includes waiters with zero sales in the range.
func (r *Reader) AllWaiters(ctx context.Context, rng Range) ([]WaiterPerformance, error) {
	return list[WaiterPerformance](ctx, r, "/metrics/all-waiters", rng.dateParams())
}

// PeakHours uses full ISO-8601 timestamps, unlike the sales family.
func (r *Reader) PeakHours(ctx context.Context, rng Range) ([]PeakHour, error) {
	return list[PeakHour](ctx, r, "/metrics/peak-hours", rng.timestampParams())
}

func (r *Reader) Financial(ctx context.Context, rng Range, period Period) (FinancialSummary, error) {
	params := rng.dateParams()
	if period != "" {
		params.Set("period", string(period))
	}
	return item[FinancialSummary](ctx, r, "/metrics/financial", params)
}

func (r *Reader) MostSoldProduct(ctx context.Context, rng Range) (ProductRank, error) {
	return item[ProductRank](ctx, r, "/metrics/most-sold-product", rng.dateParams())
}

func (r *Reader) LeastSoldProduct(ctx context.Context, rng Range) (ProductRank, error) {
	return item[ProductRank](ctx, r, "/metrics/least-sold-product", rng.dateParams())
}

// HourlyFlow uses full ISO-8601 timestamps.
func (r *Reader) HourlyFlow(ctx context.Context, rng Range) ([]HourlyFlowPoint, error) {
	return list[HourlyFlowPoint](ctx, r, "/metrics/hourly-flow", rng.timestampParams())
}

func (r *Reader) Tables(ctx context.Context) (TableSummary, error) {
	return item[TableSummary](ctx, r, "/metrics/tables", nil)
}

func (r *Reader) Realtime(ctx context.Context) (RealtimeSnapshot, error) {
	return item[RealtimeSnapshot](ctx, r, "/metrics/realtime", nil)
}

// Invalidate asks the server to purge its metrics cache.
func (r *Reader) Invalidate(ctx context.Context) error {
	_, err := r.gw.Post(ctx, "/metrics/invalidate", nil)
	return err
}

func list[T any](ctx context.Context, r *Reader, path string, params url.Values) ([]T, error) {
	raw, err := r.gw.Get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	return envelope.DataList[T](raw), nil
}

func item[T any](ctx context.Context, r *Reader, path string, params url.Values) (T, error) {
	var zero T
	raw, err := r.gw.Get(ctx, path, params)
	if err != nil {
		return zero, err
	}
	return envelope.Item[T](raw)
}
