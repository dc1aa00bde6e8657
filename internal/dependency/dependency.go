package dependency

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/salesboard/sales-dashboard/internal/entity"
)

type (
	// Reports exposes the filtered aggregation operations backing the
	// dashboard. Every operation is a pure function of its arguments; an
	// empty result set is a valid answer, never an error.
	Reports interface {
		DailyChannelStoreTotals(ctx context.Context, fc entity.FilterContext) ([]entity.DailyAggregate, error)
		ScalarSummary(ctx context.Context, fc entity.FilterContext) (entity.ScalarSummary, error)
		AverageByWeekday(ctx context.Context, fc entity.FilterContext) ([]entity.WeekdayAggregate, error)
		PaymentMethodBreakdown(ctx context.Context, fc entity.FilterContext) ([]entity.PaymentMethodTotal, error)
		TopProducts(ctx context.Context, fc entity.FilterContext, rank entity.RankKey, limit int) ([]entity.ProductRank, error)
		StoreOverview(ctx context.Context, fc entity.FilterContext) ([]entity.StoreOverview, error)
		StoreDailySales(ctx context.Context, fc entity.FilterContext) ([]entity.StoreDailySales, error)
		ProductDailySales(ctx context.Context, fc entity.FilterContext, productIDs []int) ([]entity.ProductDailySales, error)
	}

	// Dictionary serves the lookup lists the filter widgets are built from.
	Dictionary interface {
		ListStores(ctx context.Context) ([]entity.Store, error)
		ListChannels(ctx context.Context) ([]entity.Channel, error)
		ListPaymentTypes(ctx context.Context) ([]entity.PaymentType, error)
		ListProducts(ctx context.Context) ([]entity.Product, error)
	}

	Repository interface {
		Reports() Reports
		Dictionary() Dictionary
		Now() time.Time
		Close()
		DB() DB
	}

	// DB is the read-only slice of sqlx the query helpers run on.
	DB interface {
		QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
		QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
	}
)
