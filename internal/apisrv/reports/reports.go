// Package reports is the service layer tying the aggregation store, the
// reshaping helpers and the result memoization together. Every operation is
// a pure function of (FilterContext, per-call parameters); the only shared
// state is the TTL cache.
package reports

import (
	"context"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/salesboard/sales-dashboard/internal/cache"
	"github.com/salesboard/sales-dashboard/internal/dependency"
	"github.com/salesboard/sales-dashboard/internal/entity"
	"github.com/salesboard/sales-dashboard/internal/reshape"
)

// Server implements the dashboard report operations.
type Server struct {
	repo dependency.Repository
	memo *cache.Results
}

// New creates a new server with report handlers.
func New(repo dependency.Repository, memo *cache.Results) *Server {
	return &Server{repo: repo, memo: memo}
}

// cached runs fn unless a fresh memoized result exists for key. Only
// successful results are stored; failures always surface to the caller.
func cached[T any](memo *cache.Results, key string, fn func() (T, error)) (T, error) {
	if memo != nil {
		if v, ok := memo.Get(key); ok {
			if t, ok := v.(T); ok {
				return t, nil
			}
		}
	}
	t, err := fn()
	if err != nil {
		return t, err
	}
	if memo != nil {
		memo.Set(key, t)
	}
	return t, nil
}

func (s *Server) DailyChannelStoreTotals(ctx context.Context, fc entity.FilterContext) ([]entity.DailyAggregate, error) {
	return cached(s.memo, cache.Key("daily", fc), func() ([]entity.DailyAggregate, error) {
		return s.repo.Reports().DailyChannelStoreTotals(ctx, fc)
	})
}

func (s *Server) ScalarSummary(ctx context.Context, fc entity.FilterContext) (entity.ScalarSummary, error) {
	return cached(s.memo, cache.Key("summary", fc), func() (entity.ScalarSummary, error) {
		return s.repo.Reports().ScalarSummary(ctx, fc)
	})
}

func (s *Server) AverageByWeekday(ctx context.Context, fc entity.FilterContext) ([]entity.WeekdayAggregate, error) {
	return cached(s.memo, cache.Key("weekday", fc), func() ([]entity.WeekdayAggregate, error) {
		return s.repo.Reports().AverageByWeekday(ctx, fc)
	})
}

// PaymentMethodBreakdown returns per-channel payment totals with each
// method's percentage share of its channel. Zero-total channels keep their
// rows with 0 shares.
func (s *Server) PaymentMethodBreakdown(ctx context.Context, fc entity.FilterContext) ([]entity.PaymentMethodShare, error) {
	return cached(s.memo, cache.Key("payment_methods", fc), func() ([]entity.PaymentMethodShare, error) {
		rows, err := s.repo.Reports().PaymentMethodBreakdown(ctx, fc)
		if err != nil {
			return nil, err
		}
		shared := reshape.PercentOfGroup(rows,
			func(r entity.PaymentMethodTotal) string { return r.ChannelName },
			func(r entity.PaymentMethodTotal) decimal.Decimal { return r.Total },
		)
		out := make([]entity.PaymentMethodShare, 0, len(shared))
		for _, ws := range shared {
			out = append(out, entity.PaymentMethodShare{PaymentMethodTotal: ws.Row, Share: ws.Share})
		}
		return out, nil
	})
}

func (s *Server) TopProducts(ctx context.Context, fc entity.FilterContext, rank entity.RankKey, limit int) ([]entity.ProductRank, error) {
	key := cache.Key("top_products", fc, string(rank), strconv.Itoa(limit))
	return cached(s.memo, key, func() ([]entity.ProductRank, error) {
		return s.repo.Reports().TopProducts(ctx, fc, rank, limit)
	})
}

func (s *Server) StoreOverview(ctx context.Context, fc entity.FilterContext) ([]entity.StoreOverview, error) {
	return cached(s.memo, cache.Key("store_overview", fc), func() ([]entity.StoreOverview, error) {
		return s.repo.Reports().StoreOverview(ctx, fc)
	})
}

func (s *Server) StoreDailySales(ctx context.Context, fc entity.FilterContext) ([]entity.StoreDailySales, error) {
	return cached(s.memo, cache.Key("store_daily", fc), func() ([]entity.StoreDailySales, error) {
		return s.repo.Reports().StoreDailySales(ctx, fc)
	})
}

func (s *Server) ProductDailySales(ctx context.Context, fc entity.FilterContext, productIDs []int) ([]entity.ProductDailySales, error) {
	ids := make([]int, len(productIDs))
	copy(ids, productIDs)
	sort.Ints(ids)
	extras := make([]string, len(ids))
	for i, id := range ids {
		extras[i] = strconv.Itoa(id)
	}
	key := cache.Key("product_daily", fc, extras...)
	return cached(s.memo, key, func() ([]entity.ProductDailySales, error) {
		return s.repo.Reports().ProductDailySales(ctx, fc, productIDs)
	})
}

// ChannelSeries pivots the daily table by channel and melts it back to the
// long form charts consume, with zero-filled cells and a stable series
// order.
func (s *Server) ChannelSeries(ctx context.Context, fc entity.FilterContext) ([]reshape.LongRow, error) {
	return cached(s.memo, cache.Key("channel_series", fc), func() ([]reshape.LongRow, error) {
		daily, err := s.repo.Reports().DailyChannelStoreTotals(ctx, fc)
		if err != nil {
			return nil, err
		}
		return reshape.ToLongForm(reshape.PivotWideByChannel(daily)), nil
	})
}

// Dictionary lists are served uncached; the widgets load them once per page.

func (s *Server) ListStores(ctx context.Context) ([]entity.Store, error) {
	return s.repo.Dictionary().ListStores(ctx)
}

func (s *Server) ListChannels(ctx context.Context) ([]entity.Channel, error) {
	return s.repo.Dictionary().ListChannels(ctx)
}

func (s *Server) ListPaymentTypes(ctx context.Context) ([]entity.PaymentType, error) {
	return s.repo.Dictionary().ListPaymentTypes(ctx)
}

func (s *Server) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return s.repo.Dictionary().ListProducts(ctx)
}
