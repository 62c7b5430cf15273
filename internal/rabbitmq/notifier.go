package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/repair-crm/internal/models"
)

// Notifier публикует сообщения об истекающих подписках в обменник уведомлений.
type Notifier struct {
	ch *amqp.Channel
}

// NewNotifier создает новый экземпляр Notifier поверх открытого канала.
func NewNotifier(ch *amqp.Channel) *Notifier {
	return &Notifier{ch: ch}
}

// PublishExpiring отправляет сообщение в очередь уведомлений.
func (n *Notifier) PublishExpiring(msg models.ExpiringSubscription) error {
	return PublishMessage(n.ch, NotificationsExchange, "expiring", msg)
}
