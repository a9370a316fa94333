package events

import "time"

const (
	RouteOrderSummarized = "order.summarized"
	RouteBillIssued      = "bill.issued"
)

// OrderSummarized is published once an order has been created from a cart.
type OrderSummarized struct {
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	Lines     int       `json:"lines"`
	CartValue string    `json:"cart_value"`
	Discount  string    `json:"discount"`
	SubTotal  string    `json:"sub_total"`
	At        time.Time `json:"at"`
}

// BillIssued is published once checkout has committed.
type BillIssued struct {
	BillID    string    `json:"bill_id"`
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	CartValue string    `json:"cart_value"`
	Discount  string    `json:"discount"`
	SubTotal  string    `json:"sub_total"`
	At        time.Time `json:"at"`
}
