package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesboard/sales-dashboard/internal/apisrv/reports"
	"github.com/salesboard/sales-dashboard/internal/dependency"
	"github.com/salesboard/sales-dashboard/internal/entity"
	"github.com/salesboard/sales-dashboard/internal/store"
)

type fakeReports struct {
	err       error
	lastRank  entity.RankKey
	lastLimit int
}

func (f *fakeReports) DailyChannelStoreTotals(ctx context.Context, fc entity.FilterContext) ([]entity.DailyAggregate, error) {
	return nil, f.err
}

func (f *fakeReports) ScalarSummary(ctx context.Context, fc entity.FilterContext) (entity.ScalarSummary, error) {
	return entity.ScalarSummary{}, f.err
}

func (f *fakeReports) AverageByWeekday(ctx context.Context, fc entity.FilterContext) ([]entity.WeekdayAggregate, error) {
	return nil, f.err
}

func (f *fakeReports) PaymentMethodBreakdown(ctx context.Context, fc entity.FilterContext) ([]entity.PaymentMethodTotal, error) {
	return nil, f.err
}

func (f *fakeReports) TopProducts(ctx context.Context, fc entity.FilterContext, rank entity.RankKey, limit int) ([]entity.ProductRank, error) {
	f.lastRank = rank
	f.lastLimit = limit
	return nil, f.err
}

func (f *fakeReports) StoreOverview(ctx context.Context, fc entity.FilterContext) ([]entity.StoreOverview, error) {
	return nil, f.err
}

func (f *fakeReports) StoreDailySales(ctx context.Context, fc entity.FilterContext) ([]entity.StoreDailySales, error) {
	return nil, f.err
}

func (f *fakeReports) ProductDailySales(ctx context.Context, fc entity.FilterContext, productIDs []int) ([]entity.ProductDailySales, error) {
	return nil, f.err
}

type fakeDictionary struct {
	err error
}

func (f *fakeDictionary) ListStores(ctx context.Context) ([]entity.Store, error) {
	return nil, f.err
}

func (f *fakeDictionary) ListChannels(ctx context.Context) ([]entity.Channel, error) {
	return nil, f.err
}

func (f *fakeDictionary) ListPaymentTypes(ctx context.Context) ([]entity.PaymentType, error) {
	return nil, f.err
}

func (f *fakeDictionary) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return nil, f.err
}

type fakeRepo struct {
	reports    *fakeReports
	dictionary *fakeDictionary
}

func (f *fakeRepo) Reports() dependency.Reports       { return f.reports }
func (f *fakeRepo) Dictionary() dependency.Dictionary { return f.dictionary }
func (f *fakeRepo) Now() time.Time                    { return time.Now() }
func (f *fakeRepo) Close()                            {}
func (f *fakeRepo) DB() dependency.DB                 { return nil }

func newTestHandlers(reps *fakeReports, dict *fakeDictionary) *handlers {
	repo := &fakeRepo{reports: reps, dictionary: dict}
	return &handlers{svc: reports.New(repo, nil)}
}

func TestDictionaryFailureIsServerError(t *testing.T) {
	driverErr := errors.New("driver: bad connection to mysql at 10.0.0.5")
	h := newTestHandlers(&fakeReports{}, &fakeDictionary{
		err: &store.DataSourceError{Op: "list_stores", Err: driverErr},
	})

	rec := httptest.NewRecorder()
	h.listStores(rec, httptest.NewRequest("GET", "/api/dictionary/stores", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "driver", "backend error text must not reach the client")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "list_stores", body["operation"])
}

func TestUnknownFailureIsServerError(t *testing.T) {
	h := newTestHandlers(&fakeReports{}, &fakeDictionary{
		err: errors.New("driver: bad connection to mysql at 10.0.0.5"),
	})

	rec := httptest.NewRecorder()
	h.listChannels(rec, httptest.NewRequest("GET", "/api/dictionary/channels", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "driver")
	assert.Contains(t, rec.Body.String(), "internal error")
}

func TestReportFailureCarriesOperation(t *testing.T) {
	h := newTestHandlers(&fakeReports{
		err: &store.DataSourceError{Op: "scalar_summary", Err: errors.New("timeout")},
	}, &fakeDictionary{})

	rec := httptest.NewRecorder()
	h.summary(rec, httptest.NewRequest("GET", "/api/dashboard/summary", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "scalar_summary", body["operation"])
}

func TestBadDateIsBadRequest(t *testing.T) {
	h := newTestHandlers(&fakeReports{}, &fakeDictionary{})

	rec := httptest.NewRecorder()
	h.summary(rec, httptest.NewRequest("GET", "/api/dashboard/summary?start=garbage", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTopProductsNonNumericLimit(t *testing.T) {
	reps := &fakeReports{}
	h := newTestHandlers(reps, &fakeDictionary{})

	rec := httptest.NewRecorder()
	h.topProducts(rec, httptest.NewRequest("GET", "/api/dashboard/top-products?limit=abc&rank=revenue", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.RankByRevenue, reps.lastRank)
	assert.Zero(t, reps.lastLimit, "unparsable limit falls back to the default")
}
