package telegram

import (
	"context"
	"fmt"

	"github.com/tokarboss/manager-ya/internal/service"
	"github.com/tokarboss/manager-ya/internal/storage"
)

const learningMaterials = `📖 Ваши обучающие материалы:
1. Инструкция по работе: https://vk.com/video-228271511_456239156?t=6s
2. Стандарты сервиса: https://pro.yandex.ru/ru-ru/moskva/knowledge-base/courier/standarty-servisa/standarty

🚀 Удачного старта!`

// MessageSender - отправка одного сообщения.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup any) error
}

// Notifier реализует service.Notifier через сообщения бота.
type Notifier struct {
	sender     MessageSender
	partnerURL string
}

var _ service.Notifier = (*Notifier)(nil)

// NewNotifier создаёт Notifier.
func NewNotifier(sender MessageSender, partnerURL string) *Notifier {
	return &Notifier{sender: sender, partnerURL: partnerURL}
}

// ManagerAssigned присылает менеджеру карточку заявки с кнопками решения.
func (n *Notifier) ManagerAssigned(ctx context.Context, managerID int64, app storage.Application, source service.AssignmentSource) error {
	text := fmt.Sprintf("%s\n👤 %s\n📞 %s", assignmentHeader(source), app.CandidateName, app.Phone)
	if app.Info != "" {
		text += "\nℹ️ " + app.Info
	}
	return n.sender.SendMessage(ctx, managerID, text, applicationKeyboard(app))
}

// CandidateAccepted поздравляет кандидата и присылает ссылку.
func (n *Notifier) CandidateAccepted(ctx context.Context, app storage.Application) error {
	text := "🎉 Заявка одобрена!\n\n"
	if n.partnerURL != "" {
		text += "🔗 Ссылка: " + n.partnerURL + "\n"
	}
	text += learningMaterials
	return n.sender.SendMessage(ctx, app.CandidateID, text, nil)
}

func assignmentHeader(source service.AssignmentSource) string {
	switch source {
	case service.SourceSweep:
		return "🔄 АВТО-ОЧЕРЕДЬ"
	case service.SourceManual:
		return "📌 НАЗНАЧЕНА ВРУЧНУЮ"
	default:
		return "📥 АВТО-ЗАЯВКА"
	}
}
