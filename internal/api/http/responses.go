package httpapi

import "github.com/shopspring/decimal"

type summaryResponse struct {
	TotalSales  decimal.Decimal `json:"total_sales"`
	TotalOrders int             `json:"total_orders"`
	AvgTicket   decimal.Decimal `json:"avg_ticket"`
}

type dailyRow struct {
	Date    string          `json:"date"`
	Channel string          `json:"channel"`
	Store   string          `json:"store"`
	Total   decimal.Decimal `json:"total"`
	Orders  int             `json:"orders"`
}

type seriesRow struct {
	Date    string          `json:"date"`
	Channel string          `json:"channel"`
	Total   decimal.Decimal `json:"total"`
}

type weekdayRow struct {
	Weekday   string          `json:"weekday"`
	AvgTotal  decimal.Decimal `json:"avg_total"`
	SumTotal  decimal.Decimal `json:"sum_total"`
	DaysCount int             `json:"days_count"`
}

type paymentRow struct {
	Channel       string          `json:"channel"`
	PaymentMethod string          `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	Payments      int             `json:"payments"`
	Share         decimal.Decimal `json:"share"`
}

type productRow struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type storeRow struct {
	StoreID     int             `json:"store_id"`
	Name        string          `json:"name"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	TotalOrders int             `json:"total_orders"`
	AvgTicket   decimal.Decimal `json:"avg_ticket"`
}

type storeDailyRow struct {
	Date       string          `json:"date"`
	StoreID    int             `json:"store_id"`
	Name       string          `json:"name"`
	TotalSales decimal.Decimal `json:"total_sales"`
	Orders     int             `json:"orders"`
}

type productDailyRow struct {
	Date      string          `json:"date"`
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type dictRow struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
