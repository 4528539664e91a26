package domain

import "time"

// Cart statuses. A cart with a NULL status is not yet an order; once a
// status is set the cart is projected as an order. Approved and Rejected
// are terminal.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Status    *string    `json:"status,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	Lines     []CartLine `json:"lineItems,omitempty"`
}

type CartLine struct {
	ID         string    `json:"id"`
	CartID     string    `json:"cartId"`
	ProductID  string    `json:"productId"`
	Quantity   int       `json:"quantity"`
	PriceCents int64     `json:"priceCents"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TotalCents sums quantity times the current product price carried on each
// line. Prices are read at projection time, not captured at checkout, so a
// price change shows up in any cart that has not reached a terminal state.
func (c Cart) TotalCents() int64 {
	var total int64
	for _, line := range c.Lines {
		total += int64(line.Quantity) * line.PriceCents
	}
	return total
}

// IsOrder reports whether the cart has entered the order lifecycle.
func (c Cart) IsOrder() bool {
	return c.Status != nil
}

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}
