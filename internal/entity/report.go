package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyAggregate is one row per (date, channel, store) combination that had
// at least one sale in the filtered window. Days without activity are never
// synthesized for this table.
type DailyAggregate struct {
	Date        time.Time       `db:"date"`
	ChannelName string          `db:"channel_name"`
	StoreName   string          `db:"store_name"`
	Total       decimal.Decimal `db:"total"`
	Orders      int             `db:"orders"`
}

// ScalarSummary holds the headline KPIs, computed straight from the sales
// table so TotalOrders is the true row count regardless of child-row fan-out.
type ScalarSummary struct {
	TotalSales  decimal.Decimal
	TotalOrders int
	AvgTicket   decimal.Decimal
}

// WeekdayAggregate is the mean of per-day sums bucketed by weekday. A full
// report always carries exactly 7 of these, Monday first.
type WeekdayAggregate struct {
	Weekday   string
	AvgTotal  decimal.Decimal
	SumTotal  decimal.Decimal
	DaysCount int
}

// WeekdayNames is the fixed Monday-first bucket order.
var WeekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// PaymentMethodTotal aggregates payments by sales channel and payment method.
type PaymentMethodTotal struct {
	ChannelName   string          `db:"channel_name"`
	PaymentMethod string          `db:"payment_method"`
	Total         decimal.Decimal `db:"total"`
	Payments      int             `db:"payments"`
}

// PaymentMethodShare is a PaymentMethodTotal with its percentage share of
// the channel's total. A zero-total channel yields 0 for every method.
type PaymentMethodShare struct {
	PaymentMethodTotal
	Share decimal.Decimal
}

// ProductRank is one row of a top-products ranking.
type ProductRank struct {
	ProductID   int             `db:"product_id"`
	ProductName string          `db:"product_name"`
	Quantity    int             `db:"quantity"`
	Revenue     decimal.Decimal `db:"revenue"`
}

// StoreOverview carries per-store totals. Every store appears, including
// ones with zero matching sales.
type StoreOverview struct {
	StoreID     int             `db:"store_id"`
	StoreName   string          `db:"store_name"`
	TotalSales  decimal.Decimal `db:"total_sales"`
	TotalOrders int             `db:"total_orders"`
	AvgTicket   decimal.Decimal
}

// StoreDailySales is one row per (date, store) with activity.
type StoreDailySales struct {
	Date       time.Time       `db:"date"`
	StoreID    int             `db:"store_id"`
	StoreName  string          `db:"store_name"`
	TotalSales decimal.Decimal `db:"total_sales"`
	Orders     int             `db:"orders"`
}

// ProductDailySales is one row per (date, product) with activity, for the
// selected products only.
type ProductDailySales struct {
	Date        time.Time       `db:"date"`
	ProductID   int             `db:"product_id"`
	ProductName string          `db:"product_name"`
	Quantity    int             `db:"quantity"`
	Revenue     decimal.Decimal `db:"revenue"`
}
