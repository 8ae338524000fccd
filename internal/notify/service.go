package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "restaurant-pos/internal/kafka"
	"restaurant-pos/internal/pos"
	"restaurant-pos/internal/redisx"
)

// Service is the notification/print sink. It only renders: it never reaches
// back into the order store, so a broken printer can not affect an order.
type Service struct {
	Redis       *redis.Client
	Currency    string
	ServiceName string
}

// HandleEvent consumes both POS topics. Events are deduped by event id so a
// redelivered message does not print a second receipt.
func (s *Service) HandleEvent(ctx context.Context, m kafkago.Message) error {
	var env pos.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	first, err := redisx.MarkOnce(ctx, s.Redis, dkey, redisx.TTLDedup)
	if err == nil && !first {
		return nil
	}

	switch env.EventType {
	case pos.EventOrderCreated:
		p, err := kafkax.UnwrapPayload[pos.OrderCreatedPayload](env.Payload)
		if err != nil {
			return err
		}
		s.printReceipt(p)
	case pos.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[pos.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		log.Printf("order #%d: %s -> %s", p.OrderNumber, p.From, p.To)
	}
	return nil
}

func (s *Service) printReceipt(p pos.OrderCreatedPayload) {
	var b strings.Builder
	fmt.Fprintf(&b, "--- order #%d (%s)", p.OrderNumber, p.Type)
	if p.CustomerName != "" {
		fmt.Fprintf(&b, " for %s", p.CustomerName)
	}
	b.WriteString(" ---\n")
	for _, it := range p.Items {
		fmt.Fprintf(&b, "  %dx %s", it.Quantity, it.ProductName)
		if it.Variant != "" {
			fmt.Fprintf(&b, " (%s)", it.Variant)
		}
		fmt.Fprintf(&b, "  %s %s\n", s.Currency, formatCents(it.UnitPriceCents*int64(it.Quantity)))
	}
	fmt.Fprintf(&b, "  total: %s %s", s.Currency, formatCents(p.TotalCents))
	log.Print(b.String())
}

func formatCents(c int64) string {
	return fmt.Sprintf("%d.%02d", c/100, c%100)
}
