package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	couponTopic = "coupon-events"
	orderTopic  = "order-events"
)

// Publisher writes domain events to Kafka. A nil Publisher (events
// disabled) is safe to call and does nothing.
type Publisher struct {
	couponWriter *kafka.Writer
	orderWriter  *kafka.Writer
}

func NewPublisher(brokers []string) *Publisher {
	if len(brokers) == 0 {
		return nil
	}
	return &Publisher{
		couponWriter: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        couponTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
		orderWriter: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        orderTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	if err := p.couponWriter.Close(); err != nil {
		return err
	}
	return p.orderWriter.Close()
}

func (p *Publisher) PublishCouponIssued(ctx context.Context, couponID, userID, userCouponID int64) {
	if p == nil {
		return
	}
	event := CouponIssuedEvent{
		BaseEvent:    newBase(TypeCouponIssued),
		CouponID:     couponID,
		UserID:       userID,
		UserCouponID: userCouponID,
	}
	p.publish(ctx, p.couponWriter, strconv.FormatInt(couponID, 10), event)
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, orderID int64, orderNumber string, userID, totalAmount, finalAmount int64) {
	if p == nil {
		return
	}
	event := OrderCreatedEvent{
		BaseEvent:   newBase(TypeOrderCreated),
		OrderID:     orderID,
		OrderNumber: orderNumber,
		UserID:      userID,
		TotalAmount: totalAmount,
		FinalAmount: finalAmount,
	}
	p.publish(ctx, p.orderWriter, strconv.FormatInt(orderID, 10), event)
}

func (p *Publisher) PublishOrderPaid(ctx context.Context, orderID int64, orderNumber string, userID, finalAmount, usedPoints int64, couponID *int64) {
	if p == nil {
		return
	}
	event := OrderPaidEvent{
		BaseEvent:   newBase(TypeOrderPaid),
		OrderID:     orderID,
		OrderNumber: orderNumber,
		UserID:      userID,
		FinalAmount: finalAmount,
		UsedPoints:  usedPoints,
		CouponID:    couponID,
	}
	p.publish(ctx, p.orderWriter, strconv.FormatInt(orderID, 10), event)
}

// publish is best-effort: event delivery never fails the business
// operation that emitted it.
func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, key string, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("failed to marshal event", zap.Error(err))
		return
	}
	err = writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		zap.L().Error("failed to publish event", zap.String("topic", writer.Topic), zap.Error(err))
	}
}

func newBase(eventType string) BaseEvent {
	return BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
