package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/salesboard/sales-dashboard/internal/dependency"
	"github.com/salesboard/sales-dashboard/internal/entity"
)

// DataSourceError reports a failed aggregation query together with enough
// context (operation name, window, filter summary) for a user-facing
// message. It is never used for empty result sets: zero rows is a valid,
// successfully computed answer.
type DataSourceError struct {
	Op     string
	Filter entity.FilterContext
	Err    error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("%s: query failed for %s..%s (stores=%v channels=%v): %v",
		e.Op,
		e.Filter.Range.From.Format("2006-01-02 15:04:05"),
		e.Filter.Range.To.Format("2006-01-02 15:04:05"),
		e.Filter.StoreIDs, e.Filter.ChannelIDs, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

type reportsStore struct {
	*MYSQLStore
}

func (ms *MYSQLStore) Reports() dependency.Reports {
	return &reportsStore{MYSQLStore: ms}
}

// DailyChannelStoreTotals groups sales by calendar date, channel name and
// store name within the window, date ascending. The calendar date is
// DATE(created_at) evaluated in the database session timezone (the default
// DSN pins loc=Local). Only (date, channel, store) combinations with at
// least one sale are returned.
func (ms *reportsStore) DailyChannelStoreTotals(ctx context.Context, fc entity.FilterContext) ([]entity.DailyAggregate, error) {
	params := rangeParams(fc)
	query := `
		SELECT
			DATE(s.created_at) AS date,
			c.name AS channel_name,
			st.name AS store_name,
			SUM(s.total_amount) AS total,
			COUNT(*) AS orders
		FROM sales s
		INNER JOIN channels c ON c.id = s.channel_id
		INNER JOIN stores st ON st.id = s.store_id
		WHERE s.created_at BETWEEN :from AND :to` + salePredicate(fc, "s", params) + `
		GROUP BY DATE(s.created_at), c.name, st.name
		ORDER BY date ASC, channel_name ASC, store_name ASC
	`
	rows, err := QueryListNamed[entity.DailyAggregate](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, &DataSourceError{Op: "daily_channel_store_totals", Filter: fc, Err: err}
	}
	return rows, nil
}

// ScalarSummary computes the headline KPIs from the base sales table with no
// joins, so total_orders is the true row count even when a store/channel
// filter is active. The joined daily query can never be reused here: a sale
// with several child rows would inflate a joined count.
func (ms *reportsStore) ScalarSummary(ctx context.Context, fc entity.FilterContext) (entity.ScalarSummary, error) {
	type row struct {
		TotalSales  decimal.Decimal `db:"total_sales"`
		TotalOrders int             `db:"total_orders"`
	}
	params := rangeParams(fc)
	query := `
		SELECT
			COALESCE(SUM(total_amount), 0) AS total_sales,
			COUNT(*) AS total_orders
		FROM sales
		WHERE created_at BETWEEN :from AND :to` + salePredicate(fc, "", params) + `
	`
	r, err := QueryNamedOne[row](ctx, ms.DB(), query, params)
	if err != nil {
		return entity.ScalarSummary{}, &DataSourceError{Op: "scalar_summary", Filter: fc, Err: err}
	}
	return entity.ScalarSummary{
		TotalSales:  r.TotalSales,
		TotalOrders: r.TotalOrders,
		AvgTicket:   avgTicket(r.TotalSales, r.TotalOrders),
	}, nil
}

// AverageByWeekday aggregates in two phases: per-calendar-day totals inside
// the window, then the mean of those daily sums per weekday. This is the
// mean of daily sums, not the mean of individual transaction amounts. The
// result always has exactly 7 rows in Monday-first order; weekdays without
// data are zero-filled.
func (ms *reportsStore) AverageByWeekday(ctx context.Context, fc entity.FilterContext) ([]entity.WeekdayAggregate, error) {
	type row struct {
		Dow       int             `db:"dow"`
		AvgTotal  decimal.Decimal `db:"avg_total"`
		SumTotal  decimal.Decimal `db:"sum_total"`
		DaysCount int             `db:"days_count"`
	}
	params := rangeParams(fc)
	// WEEKDAY() is already Monday=0.
	query := `
		WITH daily AS (
			SELECT
				DATE(s.created_at) AS d,
				WEEKDAY(s.created_at) AS dow,
				SUM(s.total_amount) AS total
			FROM sales s
			WHERE s.created_at BETWEEN :from AND :to` + salePredicate(fc, "s", params) + `
			GROUP BY DATE(s.created_at), WEEKDAY(s.created_at)
		)
		SELECT
			dow,
			AVG(total) AS avg_total,
			SUM(total) AS sum_total,
			COUNT(*) AS days_count
		FROM daily
		GROUP BY dow
		ORDER BY dow ASC
	`
	rows, err := QueryListNamed[row](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, &DataSourceError{Op: "average_by_weekday", Filter: fc, Err: err}
	}

	out := make([]entity.WeekdayAggregate, 7)
	for i, name := range entity.WeekdayNames {
		out[i] = entity.WeekdayAggregate{
			Weekday:  name,
			AvgTotal: decimal.Zero,
			SumTotal: decimal.Zero,
		}
	}
	for _, r := range rows {
		if r.Dow < 0 || r.Dow > 6 {
			continue
		}
		out[r.Dow] = entity.WeekdayAggregate{
			Weekday:   entity.WeekdayNames[r.Dow],
			AvgTotal:  r.AvgTotal,
			SumTotal:  r.SumTotal,
			DaysCount: r.DaysCount,
		}
	}
	return out, nil
}

// PaymentMethodBreakdown joins sales to payments, payment types and
// channels, grouped by channel and method, ordered by channel name then
// descending total. Percentage shares are a reshaping concern and are
// computed downstream.
func (ms *reportsStore) PaymentMethodBreakdown(ctx context.Context, fc entity.FilterContext) ([]entity.PaymentMethodTotal, error) {
	params := rangeParams(fc)
	query := `
		SELECT
			ch.name AS channel_name,
			pt.description AS payment_method,
			SUM(p.amount) AS total,
			COUNT(*) AS payments
		FROM payments p
		JOIN payment_types pt ON pt.id = p.payment_type_id
		JOIN sales s ON s.id = p.sale_id
		JOIN channels ch ON ch.id = s.channel_id
		WHERE s.created_at BETWEEN :from AND :to` + salePredicate(fc, "s", params) + `
		GROUP BY ch.name, pt.description
		ORDER BY ch.name ASC, total DESC
	`
	rows, err := QueryListNamed[entity.PaymentMethodTotal](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, &DataSourceError{Op: "payment_method_breakdown", Filter: fc, Err: err}
	}
	return rows, nil
}

// rank column per rank key; looked up from a fixed map so a caller-supplied
// string never reaches the SQL text.
var rankColumns = map[entity.RankKey]string{
	entity.RankByQuantity: "quantity",
	entity.RankByRevenue:  "revenue",
}

// TopProducts ranks products inside the window by the requested key,
// descending, with product id as deterministic tiebreak. limit bounds the
// result; non-positive limits fall back to 10.
func (ms *reportsStore) TopProducts(ctx context.Context, fc entity.FilterContext, rank entity.RankKey, limit int) ([]entity.ProductRank, error) {
	col, ok := rankColumns[rank]
	if !ok {
		col = rankColumns[entity.RankByQuantity]
	}
	if limit <= 0 {
		limit = 10
	}
	params := rangeParams(fc)
	params["limit"] = limit
	query := `
		SELECT
			p.id AS product_id,
			p.name AS product_name,
			COALESCE(SUM(ps.quantity), 0) AS quantity,
			COALESCE(SUM(ps.total_price), 0) AS revenue
		FROM product_sales ps
		JOIN products p ON p.id = ps.product_id
		JOIN sales s ON s.id = ps.sale_id
		WHERE s.created_at BETWEEN :from AND :to` + salePredicate(fc, "s", params) + `
		GROUP BY p.id, p.name
		ORDER BY ` + col + ` DESC, p.id ASC
		LIMIT :limit
	`
	rows, err := QueryListNamed[entity.ProductRank](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, &DataSourceError{Op: "top_products", Filter: fc, Err: err}
	}
	return rows, nil
}

// StoreOverview returns one row per store with its filtered totals. The
// date and channel predicates live inside the LEFT JOIN condition so a
// store with zero matching sales still appears with zero-defaults; only the
// store filter itself narrows which stores are listed.
func (ms *reportsStore) StoreOverview(ctx context.Context, fc entity.FilterContext) ([]entity.StoreOverview, error) {
	params := rangeParams(fc)
	joinFilter := ""
	if fc.HasChannelFilter() {
		joinFilter = " AND s.channel_id IN (:channelIds)"
		params["channelIds"] = fc.ChannelIDs
	}
	where := ""
	if fc.HasStoreFilter() {
		where = "WHERE st.id IN (:storeIds)"
		params["storeIds"] = fc.StoreIDs
	}
	query := `
		SELECT
			st.id AS store_id,
			st.name AS store_name,
			COALESCE(SUM(s.total_amount), 0) AS total_sales,
			COUNT(s.id) AS total_orders
		FROM stores st
		LEFT JOIN sales s
			ON s.store_id = st.id
			AND s.created_at BETWEEN :from AND :to` + joinFilter + `
		` + where + `
		GROUP BY st.id, st.name
		ORDER BY total_sales DESC, st.id ASC
	`
	rows, err := QueryListNamed[entity.StoreOverview](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, &DataSourceError{Op: "store_overview", Filter: fc, Err: err}
	}
	for i := range rows {
		rows[i].AvgTicket = avgTicket(rows[i].TotalSales, rows[i].TotalOrders)
	}
	return rows, nil
}

// StoreDailySales groups sales by calendar date and store, date ascending.
func (ms *reportsStore) StoreDailySales(ctx context.Context, fc entity.FilterContext) ([]entity.StoreDailySales, error) {
	params := rangeParams(fc)
	query := `
		SELECT
			DATE(s.created_at) AS date,
			st.id AS store_id,
			st.name AS store_name,
			SUM(s.total_amount) AS total_sales,
			COUNT(*) AS orders
		FROM sales s
		JOIN stores st ON st.id = s.store_id
		WHERE s.created_at BETWEEN :from AND :to` + salePredicate(fc, "s", params) + `
		GROUP BY DATE(s.created_at), st.id, st.name
		ORDER BY date ASC, store_name ASC
	`
	rows, err := QueryListNamed[entity.StoreDailySales](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, &DataSourceError{Op: "store_daily_sales", Filter: fc, Err: err}
	}
	return rows, nil
}

// ProductDailySales returns the per-day quantity and revenue trend for the
// selected products. An empty product selection yields no rows rather than
// all products, since the operation exists to inspect a chosen subset.
func (ms *reportsStore) ProductDailySales(ctx context.Context, fc entity.FilterContext, productIDs []int) ([]entity.ProductDailySales, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	params := rangeParams(fc)
	params["productIds"] = productIDs
	query := `
		SELECT
			DATE(s.created_at) AS date,
			p.id AS product_id,
			p.name AS product_name,
			SUM(ps.quantity) AS quantity,
			SUM(ps.total_price) AS revenue
		FROM product_sales ps
		JOIN products p ON p.id = ps.product_id
		JOIN sales s ON s.id = ps.sale_id
		WHERE s.created_at BETWEEN :from AND :to
		AND ps.product_id IN (:productIds)` + salePredicate(fc, "s", params) + `
		GROUP BY DATE(s.created_at), p.id, p.name
		ORDER BY date ASC, product_name ASC
	`
	rows, err := QueryListNamed[entity.ProductDailySales](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, &DataSourceError{Op: "product_daily_sales", Filter: fc, Err: err}
	}
	return rows, nil
}

func avgTicket(total decimal.Decimal, orders int) decimal.Decimal {
	if orders <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(orders))).Round(2)
}
