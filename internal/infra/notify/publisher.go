package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/velokitchen/VK-BookingService/internal/domain"
	"github.com/velokitchen/VK-BookingService/pkg/retry"
)

// ErrPublish возвращается, когда событие не удалось опубликовать.
// Вызывающий код обязан логировать и глотать эту ошибку: бронирование или
// отмена должны завершиться успешно, даже если письмо не уйдёт.
var ErrPublish = errors.New("notify: failed to publish event")

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics интерфейс счётчиков публикаций
type Metrics interface {
	IncNotification(event, outcome string)
}

// Publisher публикует события бронирований в topic exchange RabbitMQ.
// Почтовый сервис подписывается на routing key booking.*.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	policy   retry.Policy
	log      Logger
	metrics  Metrics
}

// NewPublisher подключается к RabbitMQ и объявляет exchange.
// metrics может быть nil, если метрики выключены.
func NewPublisher(url, exchange string, log Logger, metrics Metrics) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("notify: rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("notify: rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("notify: rabbitmq exchange declare: %w", err)
	}

	return &Publisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		policy:   retry.DefaultPolicy,
		log:      log,
		metrics:  metrics,
	}, nil
}

// Close закрывает канал и соединение
func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// BookingCreated публикует событие о созданном бронировании
func (p *Publisher) BookingCreated(ctx context.Context, booking *domain.Booking, shiftDate time.Time) error {
	return p.publish(ctx, EventBookingCreated, payloadFromBooking(booking, shiftDate))
}

// BookingCancelled публикует событие об отмене с указанием инициатора
func (p *Publisher) BookingCancelled(ctx context.Context, booking *domain.Booking, shiftDate time.Time, cancelledBy, reason string) error {
	payload := payloadFromBooking(booking, shiftDate)
	payload.CancelledBy = cancelledBy
	payload.Reason = reason
	return p.publish(ctx, EventBookingCancelled, payload)
}

// BookingStatusChanged публикует смену статуса (completed / no_show)
func (p *Publisher) BookingStatusChanged(ctx context.Context, booking *domain.Booking, shiftDate time.Time) error {
	return p.publish(ctx, EventBookingStatusChanged, payloadFromBooking(booking, shiftDate))
}

// publish сериализует конверт и отправляет его с ограниченными повторами
// для сетевых ошибок. Ошибки валидации и сериализации не повторяются.
func (p *Publisher) publish(ctx context.Context, eventType string, payload BookingPayload) error {
	envelope := Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Booking:    payload,
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		p.observe(eventType, "error")
		return fmt.Errorf("%w: marshal envelope: %v", ErrPublish, err)
	}

	err = retry.Do(ctx, p.policy, isNetworkError, func() error {
		return p.channel.PublishWithContext(ctx, p.exchange, eventType, false, false, amqp.Publishing{
			ContentType: "application/json",
			MessageId:   envelope.EventID,
			Timestamp:   envelope.OccurredAt,
			Body:        body,
		})
	})
	if err != nil {
		p.observe(eventType, "error")
		return fmt.Errorf("%w: %s: %v", ErrPublish, eventType, err)
	}

	p.observe(eventType, "ok")
	p.log.Info("notify: published %s event_id=%s booking_id=%d", eventType, envelope.EventID, payload.BookingID)
	return nil
}

func (p *Publisher) observe(event, outcome string) {
	if p.metrics != nil {
		p.metrics.IncNotification(event, outcome)
	}
}

// isNetworkError отделяет сетевые сбои (повторяемые) от остальных
func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var amqpErr *amqp.Error
	if errors.As(err, &amqpErr) {
		// Серверные коды 3xx/5xx в AMQP означают проблемы соединения/канала
		return amqpErr.Code >= 300
	}
	return errors.Is(err, amqp.ErrClosed)
}

func payloadFromBooking(b *domain.Booking, shiftDate time.Time) BookingPayload {
	return BookingPayload{
		BookingID:       b.ID,
		ShiftID:         b.ShiftID,
		ShiftDate:       shiftDate.Format(domain.DateFormat),
		SlotTime:        b.SlotTime.String(),
		DurationMinutes: b.DurationMinutes,
		RepairType:      string(b.RepairType),
		Email:           b.Email,
		UserID:          b.UserID,
		Status:          string(b.Status),
	}
}
