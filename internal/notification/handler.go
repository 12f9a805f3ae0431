package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/campus-canteen/internal/checkout"
	"github.com/example/campus-canteen/internal/email"
)

// Handler turns consumed checkout events into confirmation mails
type Handler struct {
	emailService *email.Service
}

func NewHandler(emailSvc *email.Service) *Handler {
	return &Handler{emailService: emailSvc}
}

// HandleEvent processes one event from the order stream
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event checkout.OrderPlaced
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	if event.EventType != checkout.EventOrderPlaced {
		return nil
	}
	return h.handleOrderPlaced(event)
}

func (h *Handler) handleOrderPlaced(event checkout.OrderPlaced) error {
	log.Printf("[Notifier] Processing order %s for user %s", event.OrderID, event.UserID)

	if event.Email == "" {
		log.Printf("[Notifier] Order %s has no email address, skipping", event.OrderID)
		return nil
	}

	items := make([]email.OrderItem, len(event.Lines))
	for i, line := range event.Lines {
		items[i] = email.OrderItem{
			EntryID:  line.ID,
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.Price,
		}
	}

	if err := h.emailService.SendOrderConfirmation(event.Email, event.OrderID, event.TotalPrice, items); err != nil {
		log.Printf("[Notifier] Failed to send mail to %s: %v", event.Email, err)
		return err
	}

	log.Printf("[Notifier] Confirmation sent to %s for order %s", event.Email, event.OrderID)
	return nil
}
