package response

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	cartResponse "github.com/mahardika/storefront/cart/pkg/response"
)

// Status is the backend defined order state. The recognized set below covers
// the transitions the client requests; unknown strings stay opaque and are
// displayed verbatim.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusArriving   Status = "Arriving"
	StatusCancelled  Status = "Cancelled"
	StatusCompleted  Status = "Completed"
	StatusDelivered  Status = "Delivered"
)

// Is compares statuses case-insensitively, the backend is not consistent
// about casing.
func (s Status) Is(other Status) bool {
	return strings.EqualFold(string(s), string(other))
}

// InProgress reports whether the order is still open for cancellation. The
// compound predicate matches {"pending", "in progress"} case-insensitively.
func (s Status) InProgress() bool {
	return s.Is(StatusPending) || s.Is(StatusInProgress)
}

// Order is an immutable-at-creation snapshot of purchased lines plus mutable
// status and delivery metadata. Lines are copied values frozen at creation
// time, never live references into the cart. Total is computed once at
// creation and not recomputed.
type Order struct {
	ID           string                  `json:"id"`
	UserID       string                  `json:"userId"`
	Lines        []cartResponse.CartLine `json:"lines"`
	Total        decimal.Decimal         `json:"total"`
	Status       Status                  `json:"status"`
	Address      string                  `json:"address,omitempty"`
	ArrivingInfo string                  `json:"arrivingInfo,omitempty"`
	ArrivingDate string                  `json:"arrivingDate,omitempty"`
	CreatedAt    time.Time               `json:"createdAt"`
}
