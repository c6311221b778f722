package rabbitmq

// QueueConfig описывает очередь и её ключ маршрутизации в обмене schedule.events.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Ключи маршрутизации событий расписания.
const (
	RoutingKeySession    = "session"
	RoutingKeyAssignment = "assignment"
)

// GetMirrorQueues возвращает очереди, которые читает зеркальный сервис клиентов.
func GetMirrorQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "member.mirror.sessions", RoutingKey: RoutingKeySession},
		{QueueName: "member.mirror.assignments", RoutingKey: RoutingKeyAssignment},
	}
}
