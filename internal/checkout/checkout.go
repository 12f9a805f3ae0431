package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/example/campus-canteen/internal/domain/cart"
	"github.com/google/uuid"
)

var ErrEmptyCart = errors.New("cart is empty")

// EventOrderPlaced tags checkout events on the wire
const EventOrderPlaced = "OrderPlaced"

// OrderPlaced is published when a checkout succeeds. It carries everything
// the notifier needs so consumers never have to reach back into the cart.
type OrderPlaced struct {
	EventType  string      `json:"event_type"`
	OrderID    string      `json:"order_id"`
	UserID     string      `json:"user_id"`
	Email      string      `json:"email"`
	Lines      []cart.Line `json:"lines"`
	TotalItems int         `json:"total_items"`
	TotalPrice int         `json:"total_price"`
	PlacedAt   time.Time   `json:"placed_at"`
}

// Publisher sends checkout events to the order stream
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Service is the checkout trigger. The cart engine knows nothing about
// ordering; this is the external collaborator that clears it on success.
type Service struct {
	carts     *cart.Registry
	publisher Publisher // nil means run without a broker
}

func NewService(carts *cart.Registry, publisher Publisher) *Service {
	return &Service{carts: carts, publisher: publisher}
}

// Checkout snapshots the user's cart, publishes the order event, and only
// then clears the cart. A failed publish leaves the cart intact so there is
// never a cleared cart without a recorded order.
func (s *Service) Checkout(ctx context.Context, userID, email string) (*OrderPlaced, error) {
	engine := s.carts.ForUser(userID)

	snap := engine.Snapshot()
	if len(snap.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	event := &OrderPlaced{
		EventType:  EventOrderPlaced,
		OrderID:    uuid.New().String(),
		UserID:     userID,
		Email:      email,
		Lines:      snap.Lines,
		TotalItems: snap.TotalItems,
		TotalPrice: snap.TotalPrice,
		PlacedAt:   time.Now(),
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, event.OrderID, event); err != nil {
			return nil, err
		}
	}

	// Subscribers observe the empty cart before the caller is routed away
	engine.Clear()

	return event, nil
}
