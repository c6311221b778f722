// Package notifier реализует асинхронное оповещение встречного сервиса об
// изменениях расписания и закреплений. Доставка best-effort: вызывающая
// сторона не ждёт подтверждения, ответ клиенту не зависит от исхода отправки,
// ошибки только логируются. Notifier — интерфейс, чтобы стратегию доставки
// можно было заменить (например, на outbox с повторами) без правки сервисов.
package notifier

import (
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/gym-scheduler/internal/lib/sl"
	"github.com/magabrotheeeer/gym-scheduler/internal/models"
	"github.com/magabrotheeeer/gym-scheduler/internal/rabbitmq"
)

// Notifier оповещает встречный сервис об изменениях, не блокируя вызывающего.
type Notifier interface {
	// SessionChanged отправляет событие о создании, переносе или удалении тренировки.
	SessionChanged(event models.SessionEvent)
	// AssignmentChanged отправляет событие об изменении закрепления.
	AssignmentChanged(event models.AssignmentEvent)
}

// RabbitNotifier публикует события в обмен schedule.events.
type RabbitNotifier struct {
	ch  *amqp.Channel
	log *slog.Logger
}

// NewRabbitNotifier создает новый RabbitNotifier.
func NewRabbitNotifier(ch *amqp.Channel, log *slog.Logger) *RabbitNotifier {
	return &RabbitNotifier{ch: ch, log: log}
}

// SessionChanged публикует событие тренировки из отдельной горутины.
func (n *RabbitNotifier) SessionChanged(event models.SessionEvent) {
	go func() {
		if err := rabbitmq.PublishMessage(n.ch, rabbitmq.ExchangeName, rabbitmq.RoutingKeySession, event); err != nil {
			n.log.Warn("failed to publish session event",
				slog.String("type", event.Type),
				slog.String("session_uid", event.SessionUID),
				sl.Err(err))
		}
	}()
}

// AssignmentChanged публикует событие закрепления из отдельной горутины.
func (n *RabbitNotifier) AssignmentChanged(event models.AssignmentEvent) {
	go func() {
		if err := rabbitmq.PublishMessage(n.ch, rabbitmq.ExchangeName, rabbitmq.RoutingKeyAssignment, event); err != nil {
			n.log.Warn("failed to publish assignment event",
				slog.String("member_uid", event.MemberUID),
				sl.Err(err))
		}
	}()
}

// Noop отключает оповещения, используется в тестах и автономном запуске.
type Noop struct{}

// SessionChanged ничего не делает.
func (Noop) SessionChanged(models.SessionEvent) {}

// AssignmentChanged ничего не делает.
func (Noop) AssignmentChanged(models.AssignmentEvent) {}
