package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const promotedQueueName = "waitlist.promoted"

// AMQPNotifier publishes promotion notices to a durable queue for the
// notification subsystem (email/SMS/push workers) to consume.
type AMQPNotifier struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewAMQPNotifier dials the broker and declares the durable queue.
func NewAMQPNotifier(url string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp broker failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel failed: %w", err)
	}

	if _, err := ch.QueueDeclare(promotedQueueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s failed: %w", promotedQueueName, err)
	}

	return &AMQPNotifier{conn: conn, channel: ch}, nil
}

func (n *AMQPNotifier) NotifyPromoted(ctx context.Context, notice PromotionNotice) error {
	body, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("marshal promotion notice failed: %w", err)
	}

	err = n.channel.PublishWithContext(ctx, "", promotedQueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish promotion notice failed: %w", err)
	}
	return nil
}

func (n *AMQPNotifier) Close() error {
	if err := n.channel.Close(); err != nil {
		_ = n.conn.Close()
		return err
	}
	return n.conn.Close()
}
