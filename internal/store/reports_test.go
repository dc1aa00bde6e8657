package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesboard/sales-dashboard/internal/entity"
)

func newMockStore(t *testing.T) (*MYSQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &MYSQLStore{db: sqlx.NewDb(db, "sqlmock")}, mock
}

func TestScalarSummary(t *testing.T) {
	ms, mock := newMockStore(t)
	fc := testFilter(nil, nil)

	mock.ExpectQuery(`(?s)SELECT.+COALESCE\(SUM\(total_amount\), 0\).+FROM sales.+WHERE created_at BETWEEN`).
		WillReturnRows(sqlmock.NewRows([]string{"total_sales", "total_orders"}).
			AddRow("250.00", 4))

	sum, err := ms.Reports().ScalarSummary(context.Background(), fc)
	require.NoError(t, err)

	assert.True(t, sum.TotalSales.Equal(decimal.RequireFromString("250.00")), sum.TotalSales.String())
	assert.Equal(t, 4, sum.TotalOrders)
	assert.True(t, sum.AvgTicket.Equal(decimal.RequireFromString("62.50")), sum.AvgTicket.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScalarSummaryEmptyWindow(t *testing.T) {
	ms, mock := newMockStore(t)
	fc := testFilter([]int{1}, nil)

	mock.ExpectQuery(`(?s)FROM sales.+store_id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"total_sales", "total_orders"}).
			AddRow("0", 0))

	sum, err := ms.Reports().ScalarSummary(context.Background(), fc)
	require.NoError(t, err)

	assert.True(t, sum.TotalSales.IsZero())
	assert.Zero(t, sum.TotalOrders)
	assert.True(t, sum.AvgTicket.IsZero(), "no orders must not divide")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAverageByWeekdayZeroFill(t *testing.T) {
	ms, mock := newMockStore(t)
	fc := testFilter(nil, nil)

	mock.ExpectQuery(`(?s)WITH daily AS.+WEEKDAY\(s\.created_at\).+GROUP BY dow`).
		WillReturnRows(sqlmock.NewRows([]string{"dow", "avg_total", "sum_total", "days_count"}).
			AddRow(0, "100.00", "200.00", 2).
			AddRow(4, "55.50", "55.50", 1))

	rows, err := ms.Reports().AverageByWeekday(context.Background(), fc)
	require.NoError(t, err)

	require.Len(t, rows, 7)
	assert.Equal(t, "Mon", rows[0].Weekday)
	assert.Equal(t, "Sun", rows[6].Weekday)
	assert.True(t, rows[0].AvgTotal.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, 2, rows[0].DaysCount)
	assert.Equal(t, "Fri", rows[4].Weekday)
	assert.True(t, rows[4].AvgTotal.Equal(decimal.RequireFromString("55.50")))
	for _, i := range []int{1, 2, 3, 5, 6} {
		assert.True(t, rows[i].AvgTotal.IsZero(), rows[i].Weekday)
		assert.True(t, rows[i].SumTotal.IsZero(), rows[i].Weekday)
		assert.Zero(t, rows[i].DaysCount, rows[i].Weekday)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyChannelStoreTotals(t *testing.T) {
	ms, mock := newMockStore(t)
	fc := testFilter(nil, []int{2})
	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)DATE\(s\.created_at\).+INNER JOIN channels.+INNER JOIN stores.+channel_id IN.+ORDER BY date ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"date", "channel_name", "store_name", "total", "orders"}).
			AddRow(day, "Online", "Downtown", "120.00", 3))

	rows, err := ms.Reports().DailyChannelStoreTotals(context.Background(), fc)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "Online", rows[0].ChannelName)
	assert.Equal(t, "Downtown", rows[0].StoreName)
	assert.Equal(t, 3, rows[0].Orders)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTopProductsRankColumn(t *testing.T) {
	ms, mock := newMockStore(t)
	fc := testFilter(nil, nil)

	mock.ExpectQuery(`(?s)FROM product_sales ps.+ORDER BY revenue DESC, p\.id ASC.+LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "product_name", "quantity", "revenue"}).
			AddRow(7, "Espresso", 40, "160.00").
			AddRow(3, "Latte", 25, "112.50"))

	rows, err := ms.Reports().TopProducts(context.Background(), fc, entity.RankByRevenue, 2)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, 7, rows[0].ProductID)
	assert.Equal(t, "Espresso", rows[0].ProductName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTopProductsUnknownRankFallsBack(t *testing.T) {
	ms, mock := newMockStore(t)
	fc := testFilter(nil, nil)

	mock.ExpectQuery(`(?s)ORDER BY quantity DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "product_name", "quantity", "revenue"}))

	rows, err := ms.Reports().TopProducts(context.Background(), fc, entity.RankKey("sneaky; DROP TABLE"), 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreOverviewKeepsZeroStores(t *testing.T) {
	ms, mock := newMockStore(t)
	fc := testFilter(nil, nil)

	mock.ExpectQuery(`(?s)FROM stores st.+LEFT JOIN sales s.+GROUP BY st\.id`).
		WillReturnRows(sqlmock.NewRows([]string{"store_id", "store_name", "total_sales", "total_orders"}).
			AddRow(1, "Downtown", "300.00", 4).
			AddRow(2, "Harbor", "0", 0))

	rows, err := ms.Reports().StoreOverview(context.Background(), fc)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.True(t, rows[0].AvgTicket.Equal(decimal.RequireFromString("75.00")), rows[0].AvgTicket.String())
	assert.True(t, rows[1].AvgTicket.IsZero(), "zero-order store keeps zero avg ticket")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductDailySalesEmptySelection(t *testing.T) {
	ms, _ := newMockStore(t)
	fc := testFilter(nil, nil)

	rows, err := ms.Reports().ProductDailySales(context.Background(), fc, nil)
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestQueryFailureWrapsDataSourceError(t *testing.T) {
	ms, mock := newMockStore(t)
	fc := testFilter([]int{1, 2}, nil)

	dbErr := errors.New("connection reset")
	mock.ExpectQuery(`(?s)FROM sales`).WillReturnError(dbErr)

	_, err := ms.Reports().ScalarSummary(context.Background(), fc)
	require.Error(t, err)

	var dse *DataSourceError
	require.True(t, errors.As(err, &dse))
	assert.Equal(t, "scalar_summary", dse.Op)
	assert.Equal(t, fc, dse.Filter)
	assert.True(t, errors.Is(err, dbErr))
	require.NoError(t, mock.ExpectationsWereMet())
}
