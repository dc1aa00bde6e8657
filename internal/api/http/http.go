// Package httpapi exposes the dashboard report operations as a JSON API.
// It is a thin presentation adapter: it parses filters, calls the reports
// service and writes plain tabular results.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/salesboard/sales-dashboard/internal/apisrv/reports"
	"github.com/salesboard/sales-dashboard/internal/entity"
	"github.com/salesboard/sales-dashboard/internal/filter"
	"github.com/salesboard/sales-dashboard/internal/store"
)

// Config is the configuration for the http server
type Config struct {
	Port           string   `mapstructure:"port"`
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Server is the http server
type Server struct {
	hs   *http.Server
	c    *Config
	done chan struct{}
}

// New creates a new server
func New(config *Config) *Server {
	return &Server{
		c:    config,
		done: make(chan struct{}),
	}
}

// Done returns a channel that is closed when the http server exits
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Start begins serving the API. It returns once the listener is running;
// ListenAndServe failures close Done.
func (s *Server) Start(ctx context.Context, svc *reports.Server) error {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.c.AllowedOrigins,
		AllowedMethods: []string{http.MethodHead, http.MethodGet, http.MethodOptions},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	h := &handlers{svc: svc}
	r.Route("/api", func(r chi.Router) {
		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/summary", h.summary)
			r.Get("/daily", h.daily)
			r.Get("/channel-series", h.channelSeries)
			r.Get("/weekdays", h.weekdays)
			r.Get("/payment-methods", h.paymentMethods)
			r.Get("/top-products", h.topProducts)
			r.Get("/stores", h.storeOverview)
			r.Get("/stores/daily", h.storeDaily)
			r.Get("/products/daily", h.productDaily)
		})
		r.Route("/dictionary", func(r chi.Router) {
			r.Get("/stores", h.listStores)
			r.Get("/channels", h.listChannels)
			r.Get("/payment-types", h.listPaymentTypes)
			r.Get("/products", h.listProducts)
		})
	})

	s.hs = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", s.c.Address, s.c.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		defer close(s.done)
		if err := s.hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Default().ErrorContext(ctx, "http server exited",
				slog.String("err", err.Error()),
			)
		}
	}()

	slog.Default().InfoContext(ctx, "http server listening", slog.String("addr", s.hs.Addr))
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.hs == nil {
		return nil
	}
	return s.hs.Shutdown(ctx)
}

type handlers struct {
	svc *reports.Server
}

// filterFromRequest builds the FilterContext from query parameters. Dates
// default to today; a malformed date is a client error, while a malformed
// store/channel selection is dropped in favor of "no filter" with a
// warning, per the recovery policy for filter input.
func filterFromRequest(r *http.Request) (entity.FilterContext, error) {
	q := r.URL.Query()
	today := time.Now()

	start, err := parseDate(q.Get("start"), today)
	if err != nil {
		return entity.FilterContext{}, err
	}
	end, err := parseDate(q.Get("end"), today)
	if err != nil {
		return entity.FilterContext{}, err
	}

	storeIDs := parseSelectionsOrAll(r.Context(), "store", q["store"])
	channelIDs := parseSelectionsOrAll(r.Context(), "channel", q["channel"])

	from, _ := filter.DayBounds(start)
	_, to := filter.DayBounds(end)
	return entity.FilterContext{
		Range:      entity.TimeRange{From: from, To: to},
		StoreIDs:   storeIDs,
		ChannelIDs: channelIDs,
	}, nil
}

func parseDate(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", raw)
	}
	return d, nil
}

func parseSelectionsOrAll(ctx context.Context, name string, selections []string) []int {
	ids, err := filter.ParseSelections(selections)
	if err != nil {
		slog.Default().WarnContext(ctx, "ignoring malformed filter selection",
			slog.String("filter", name),
			slog.String("err", err.Error()),
		)
		return nil
	}
	return ids
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("encode response", slog.String("err", err.Error()))
	}
}

// respondError maps a failed service call to a 500. The error text itself
// is logged, never echoed to the client; a DataSourceError additionally
// carries its operation name into the body.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	body := map[string]string{"error": "internal error"}
	var dse *store.DataSourceError
	if errors.As(err, &dse) {
		slog.Default().ErrorContext(r.Context(), "report query failed",
			slog.String("op", dse.Op),
			slog.String("err", err.Error()),
		)
		body["error"] = "report query failed"
		body["operation"] = dse.Op
	} else {
		slog.Default().ErrorContext(r.Context(), "request failed",
			slog.String("err", err.Error()),
		)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(body)
}

func respondBadRequest(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func (h *handlers) summary(w http.ResponseWriter, r *http.Request) {
	fc, err := filterFromRequest(r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	sum, err := h.svc.ScalarSummary(r.Context(), fc)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, summaryResponse{
		TotalSales:  sum.TotalSales,
		TotalOrders: sum.TotalOrders,
		AvgTicket:   sum.AvgTicket,
	})
}

func (h *handlers) daily(w http.ResponseWriter, r *http.Request) {
	fc, err := filterFromRequest(r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	rows, err := h.svc.DailyChannelStoreTotals(r.Context(), fc)
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]dailyRow, 0, len(rows))
	for _, a := range rows {
		out = append(out, dailyRow{
			Date:    a.Date.Format("2006-01-02"),
			Channel: a.ChannelName,
			Store:   a.StoreName,
			Total:   a.Total,
			Orders:  a.Orders,
		})
	}
	respondJSON(w, out)
}

func (h *handlers) channelSeries(w http.ResponseWriter, r *http.Request) {
	fc, err := filterFromRequest(r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	rows, err := h.svc.ChannelSeries(r.Context(), fc)
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]seriesRow, 0, len(rows))
	for _, p := range rows {
		out = append(out, seriesRow{
			Date:    p.Date.Format("2006-01-02"),
			Channel: p.Channel,
			Total:   p.Total,
		})
	}
	respondJSON(w, out)
}

func (h *handlers) weekdays(w http.ResponseWriter, r *http.Request) {
	fc, err := filterFromRequest(r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	rows, err := h.svc.AverageByWeekday(r.Context(), fc)
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]weekdayRow, 0, len(rows))
	for _, a := range rows {
		out = append(out, weekdayRow{
			Weekday:   a.Weekday,
			AvgTotal:  a.AvgTotal,
			SumTotal:  a.SumTotal,
			DaysCount: a.DaysCount,
		})
	}
	respondJSON(w, out)
}

func (h *handlers) paymentMethods(w http.ResponseWriter, r *http.Request) {
	fc, err := filterFromRequest(r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	rows, err := h.svc.PaymentMethodBreakdown(r.Context(), fc)
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]paymentRow, 0, len(rows))
	for _, p := range rows {
		out = append(out, paymentRow{
			Channel:       p.ChannelName,
			PaymentMethod: p.PaymentMethod,
			Total:         p.Total,
			Payments:      p.Payments,
			Share:         p.Share,
		})
	}
	respondJSON(w, out)
}

func (h *handlers) topProducts(w http.ResponseWriter, r *http.Request) {
	fc, err := filterFromRequest(r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	q := r.URL.Query()
	rank := entity.RankByQuantity
	if raw := q.Get("rank"); raw != "" && entity.IsValidRankKey(raw) {
		rank = entity.RankKey(raw)
	}
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err == nil {
			limit = n
		}
	}
	rows, err := h.svc.TopProducts(r.Context(), fc, rank, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]productRow, 0, len(rows))
	for _, p := range rows {
		out = append(out, productRow{
			ProductID: p.ProductID,
			Name:      p.ProductName,
			Quantity:  p.Quantity,
			Revenue:   p.Revenue,
		})
	}
	respondJSON(w, out)
}

func (h *handlers) storeOverview(w http.ResponseWriter, r *http.Request) {
	fc, err := filterFromRequest(r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	rows, err := h.svc.StoreOverview(r.Context(), fc)
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]storeRow, 0, len(rows))
	for _, s := range rows {
		out = append(out, storeRow{
			StoreID:     s.StoreID,
			Name:        s.StoreName,
			TotalSales:  s.TotalSales,
			TotalOrders: s.TotalOrders,
			AvgTicket:   s.AvgTicket,
		})
	}
	respondJSON(w, out)
}

func (h *handlers) storeDaily(w http.ResponseWriter, r *http.Request) {
	fc, err := filterFromRequest(r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	rows, err := h.svc.StoreDailySales(r.Context(), fc)
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]storeDailyRow, 0, len(rows))
	for _, s := range rows {
		out = append(out, storeDailyRow{
			Date:       s.Date.Format("2006-01-02"),
			StoreID:    s.StoreID,
			Name:       s.StoreName,
			TotalSales: s.TotalSales,
			Orders:     s.Orders,
		})
	}
	respondJSON(w, out)
}

func (h *handlers) productDaily(w http.ResponseWriter, r *http.Request) {
	fc, err := filterFromRequest(r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	productIDs := parseSelectionsOrAll(r.Context(), "product_id", r.URL.Query()["product_id"])
	rows, err := h.svc.ProductDailySales(r.Context(), fc, productIDs)
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]productDailyRow, 0, len(rows))
	for _, p := range rows {
		out = append(out, productDailyRow{
			Date:      p.Date.Format("2006-01-02"),
			ProductID: p.ProductID,
			Name:      p.ProductName,
			Quantity:  p.Quantity,
			Revenue:   p.Revenue,
		})
	}
	respondJSON(w, out)
}

func (h *handlers) listStores(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListStores(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]dictRow, 0, len(rows))
	for _, s := range rows {
		out = append(out, dictRow{ID: s.ID, Name: s.Name})
	}
	respondJSON(w, out)
}

func (h *handlers) listChannels(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListChannels(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]dictRow, 0, len(rows))
	for _, c := range rows {
		out = append(out, dictRow{ID: c.ID, Name: c.Name})
	}
	respondJSON(w, out)
}

func (h *handlers) listPaymentTypes(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListPaymentTypes(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]dictRow, 0, len(rows))
	for _, p := range rows {
		out = append(out, dictRow{ID: p.ID, Name: p.Description})
	}
	respondJSON(w, out)
}

func (h *handlers) listProducts(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListProducts(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]dictRow, 0, len(rows))
	for _, p := range rows {
		out = append(out, dictRow{ID: p.ID, Name: p.Name})
	}
	respondJSON(w, out)
}
