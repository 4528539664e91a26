package domain

// Order is a read projection over a cart that has a non-NULL status. It is
// not stored separately; the cart row is the order.
type Order struct {
	Cart
	TotalPriceCents int64  `json:"totalPriceCents"`
	Comment         string `json:"comment,omitempty"`
}

// Stats aggregates order counts and revenue for the admin view. Revenue is
// computed from current product prices, not prices at order time.
type Stats struct {
	TotalOrders       int   `json:"totalOrders"`
	PendingOrders     int   `json:"pendingOrders"`
	TotalRevenueCents int64 `json:"totalRevenueCents"`
}
