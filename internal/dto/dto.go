package dto

import "time"

type StatsResponse struct {
	TotalBuyers  int64  `json:"total_buyers"`
	TotalSales   string `json:"total_sales_sol"`
	ProductCount int64  `json:"product_count"`
	LiveSessions int    `json:"live_sessions"`
}

type PurchaseResponse struct {
	BuyerID      int64     `json:"buyer_id"`
	BuyerName    string    `json:"buyer_name"`
	ProductID    uint      `json:"product_id"`
	ProductTitle string    `json:"product_title"`
	PurchasedAt  time.Time `json:"purchased_at"`
}
