// Package reshape converts tidy aggregation output into the pivoted and
// long-form tables multi-series charts are built from.
package reshape

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salesboard/sales-dashboard/internal/entity"
)

// WideTable has one row per date and one column per distinct channel name
// observed in the source rows. Channels keeps the fixed column order; every
// row's Totals slice is aligned with it and zero-filled, never sparse.
type WideTable struct {
	Channels []string
	Rows     []WideRow
}

type WideRow struct {
	Date   time.Time
	Totals []decimal.Decimal
}

// LongRow is one (date, channel) pair of the melted table.
type LongRow struct {
	Date    time.Time
	Channel string
	Total   decimal.Decimal
}

// PivotWideByChannel sums the daily aggregates per (date, channel) across
// stores and lays them out as a wide table. Missing (date, channel)
// combinations are filled with zero. Columns appear in first-observed order
// of the input rather than alphabetically, so series ordering is stable
// across renders; dates are sorted ascending.
func PivotWideByChannel(rows []entity.DailyAggregate) WideTable {
	var channels []string
	colIdx := make(map[string]int)
	sums := make(map[time.Time]map[string]decimal.Decimal)
	var dates []time.Time

	for _, r := range rows {
		if _, ok := colIdx[r.ChannelName]; !ok {
			colIdx[r.ChannelName] = len(channels)
			channels = append(channels, r.ChannelName)
		}
		day, ok := sums[r.Date]
		if !ok {
			day = make(map[string]decimal.Decimal)
			sums[r.Date] = day
			dates = append(dates, r.Date)
		}
		day[r.ChannelName] = day[r.ChannelName].Add(r.Total)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	wide := WideTable{Channels: channels}
	for _, d := range dates {
		row := WideRow{Date: d, Totals: make([]decimal.Decimal, len(channels))}
		for i, ch := range channels {
			if v, ok := sums[d][ch]; ok {
				row.Totals[i] = v
			} else {
				row.Totals[i] = decimal.Zero
			}
		}
		wide.Rows = append(wide.Rows, row)
	}
	return wide
}

// ToLongForm melts a wide table back into one row per (date, channel),
// preserving the wide table's column order as the categorical channel
// sequence.
func ToLongForm(w WideTable) []LongRow {
	long := make([]LongRow, 0, len(w.Rows)*len(w.Channels))
	for _, row := range w.Rows {
		for i, ch := range w.Channels {
			long = append(long, LongRow{Date: row.Date, Channel: ch, Total: row.Totals[i]})
		}
	}
	return long
}

// WithShare pairs a row with its percentage share of the row's group total.
type WithShare[T any] struct {
	Row   T
	Share decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// PercentOfGroup computes each row's share of its group total as a
// percentage. Rows are returned in input order, one output per input; a
// group whose total is zero gets a 0 share for every row instead of a
// division error.
func PercentOfGroup[T any](rows []T, groupKey func(T) string, value func(T) decimal.Decimal) []WithShare[T] {
	totals := make(map[string]decimal.Decimal)
	for _, r := range rows {
		k := groupKey(r)
		totals[k] = totals[k].Add(value(r))
	}
	out := make([]WithShare[T], 0, len(rows))
	for _, r := range rows {
		share := decimal.Zero
		if total := totals[groupKey(r)]; !total.IsZero() {
			share = value(r).Div(total).Mul(hundred).Round(2)
		}
		out = append(out, WithShare[T]{Row: r, Share: share})
	}
	return out
}
