package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/retailshop/pkg/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitPublisher sends order events to a durable topic exchange.
type RabbitPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func Dial(cfg *config.RabbitMQConfig) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p, err := NewRabbitPublisher(ch, cfg.Exchange)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewRabbitPublisher declares the exchange and one durable queue per route.
func NewRabbitPublisher(ch *amqp.Channel, exchange string) (*RabbitPublisher, error) {
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	for _, route := range []string{RouteOrderSummarized, RouteBillIssued} {
		q, err := ch.QueueDeclare(route+".q", true, false, false, false, nil)
		if err != nil {
			return nil, fmt.Errorf("declare queue %s: %w", route, err)
		}
		if err := ch.QueueBind(q.Name, route, exchange, false, nil); err != nil {
			return nil, fmt.Errorf("queue bind %s: %w", route, err)
		}
	}

	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}

	return &RabbitPublisher{ch: ch, exchange: exchange}, nil
}

// Publish sends msg with the given routing key and waits for the broker ack.
func (p *RabbitPublisher) Publish(ctx context.Context, routingKey string, msg any) error {
	pub, err := encode(msg)
	if err != nil {
		return err
	}

	confirm, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, p.exchange, routingKey, false, false, pub)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("confirm %s: %w", routingKey, err)
	}
	if !acked {
		return fmt.Errorf("publish %s: nacked by broker", routingKey)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func encode(msg any) (amqp.Publishing, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal message: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}, nil
}
