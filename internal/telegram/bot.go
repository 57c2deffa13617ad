package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tokarboss/manager-ya/internal/apperrors"
	"github.com/tokarboss/manager-ya/internal/service"
	"github.com/tokarboss/manager-ya/internal/storage"
)

// Тексты кнопок менеджера.
const (
	btnStartShift = "🟢 Начать смену"
	btnEndShift   = "🔴 Завершить смену"
	btnActive     = "🏃 Активная заявка"
	btnLink       = "🔗 Моя ссылка"
)

// Тексты кнопок анкеты.
const (
	btnAdult   = "Да, мне есть 18 лет ✅"
	btnMinor   = "Нет ❌"
	btnContact = "📱 Отправить контакт"
)

const (
	callbackPrefix  = "status_"
	callbackLead    = "lead"
	callbackNotLead = "notlead"
)

// Sender - исходящие методы Bot API, которые нужны боту.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup any) error
	EditMessageText(ctx context.Context, chatID, messageID int64, text string) error
	AnswerCallbackQuery(ctx context.Context, callbackID, text string) error
}

// Managers - операции над менеджерами, доступные из бота.
type Managers interface {
	Get(ctx context.Context, id int64) (storage.Manager, *apperrors.AppError)
	SetShift(ctx context.Context, id int64, shift storage.ShiftStatus) (storage.ShiftChange, *apperrors.AppError)
}

// Applications - операции над заявками, доступные из бота.
type Applications interface {
	Submit(ctx context.Context, in storage.NewApplication) (service.SubmitResult, *apperrors.AppError)
	SetOutcome(ctx context.Context, id int64, status storage.ApplicationStatus) (storage.Application, *apperrors.AppError)
	ActiveFor(ctx context.Context, managerID int64) (storage.Application, *apperrors.AppError)
}

// Bot обрабатывает входящие обновления Telegram.
type Bot struct {
	sender     Sender
	managers   Managers
	apps       Applications
	forms      *conversations
	logger     *slog.Logger
	partnerURL string
}

// NewBot создаёт обработчик бота.
func NewBot(sender Sender, managers Managers, apps Applications, partnerURL string, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		sender:     sender,
		managers:   managers,
		apps:       apps,
		forms:      newConversations(),
		logger:     logger,
		partnerURL: partnerURL,
	}
}

// HandleUpdate маршрутизирует сообщения и нажатия кнопок.
func (b *Bot) HandleUpdate(ctx context.Context, update Update) error {
	if update.CallbackQuery != nil {
		return b.handleCallback(ctx, update.CallbackQuery)
	}
	if update.Message == nil {
		return nil
	}

	msg := update.Message
	if msg.Chat.Type != "" && msg.Chat.Type != "private" {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch {
	case text == "/start" || strings.HasPrefix(text, "/start "):
		return b.handleStart(ctx, msg)
	case text == btnStartShift:
		return b.handleShift(ctx, msg, storage.ShiftOn)
	case text == btnEndShift:
		return b.handleShift(ctx, msg, storage.ShiftOff)
	case text == btnActive:
		return b.handleActive(ctx, msg)
	case text == btnLink:
		return b.handleLink(ctx, msg)
	}

	if f, ok := b.forms.get(msg.Chat.ID); ok {
		return b.handleForm(ctx, msg, f)
	}
	return nil
}

func (b *Bot) handleStart(ctx context.Context, msg *Message) error {
	b.forms.clear(msg.Chat.ID)

	m, appErr := b.managers.Get(ctx, msg.From.ID)
	if appErr == nil {
		text := "Кабинет менеджера. Смена: " + shiftLabel(m.Shift)
		return b.sender.SendMessage(ctx, msg.Chat.ID, text, managerKeyboard())
	}
	if appErr.Code != apperrors.ErrNotFound {
		return appErr
	}

	b.forms.set(msg.Chat.ID, form{Step: stepAge})
	return b.sender.SendMessage(ctx, msg.Chat.ID, "Вам есть 18 лет?", replyKeyboard(btnAdult, btnMinor))
}

func (b *Bot) handleForm(ctx context.Context, msg *Message, f form) error {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch f.Step {
	case stepAge:
		if !strings.Contains(text, "Да") {
			return b.sender.SendMessage(ctx, chatID, "Доступ запрещен.", nil)
		}
		f.Step = stepCity
		b.forms.set(chatID, f)
		return b.sender.SendMessage(ctx, chatID, "Ваш город?", ReplyKeyboardRemove{RemoveKeyboard: true})

	case stepCity:
		if text == "" {
			return b.sender.SendMessage(ctx, chatID, "Ваш город?", nil)
		}
		f.City, f.Step = text, stepCitizenship
		b.forms.set(chatID, f)
		return b.sender.SendMessage(ctx, chatID, "Гражданство:", replyKeyboard("РФ 🇷🇺", "СНГ 🌍"))

	case stepCitizenship:
		if text == "" {
			return b.sender.SendMessage(ctx, chatID, "Гражданство:", nil)
		}
		f.Citizenship, f.Step = text, stepTransport
		b.forms.set(chatID, f)
		return b.sender.SendMessage(ctx, chatID, "Транспорт:", replyKeyboard("Пешком", "Вело", "Авто"))

	case stepTransport:
		if text == "" {
			return b.sender.SendMessage(ctx, chatID, "Транспорт:", nil)
		}
		f.Transport, f.Step = text, stepContact
		b.forms.set(chatID, f)
		return b.sender.SendMessage(ctx, chatID, "Поделитесь контактом:", contactKeyboard())

	case stepContact:
		if msg.Contact == nil {
			return b.sender.SendMessage(ctx, chatID, "Нажмите кнопку «"+btnContact+"».", contactKeyboard())
		}
		return b.finishForm(ctx, msg, f)
	}
	return nil
}

func (b *Bot) finishForm(ctx context.Context, msg *Message, f form) error {
	name := msg.From.FullName()
	if name == "" {
		name = msg.From.Username
	}

	res, appErr := b.apps.Submit(ctx, storage.NewApplication{
		CandidateID:       msg.From.ID,
		CandidateName:     name,
		CandidateUsername: msg.From.Username,
		Info:              f.Info(),
		Phone:             msg.Contact.PhoneNumber,
	})
	if appErr != nil {
		b.logger.Error("submit from telegram failed",
			slog.Int64("chat_id", msg.Chat.ID),
			slog.String("error", appErr.Error()),
		)
		return b.sender.SendMessage(ctx, msg.Chat.ID, "Не удалось сохранить заявку, попробуйте позже.", nil)
	}
	b.forms.clear(msg.Chat.ID)

	text := "✅ Заявка принята! Ожидайте связи."
	if res.Manager != nil && res.Manager.Username != "" {
		text = fmt.Sprintf("✅ Готово! Менеджер @%s свяжется с вами.", res.Manager.Username)
	}
	return b.sender.SendMessage(ctx, msg.Chat.ID, text, ReplyKeyboardRemove{RemoveKeyboard: true})
}

func (b *Bot) handleShift(ctx context.Context, msg *Message, shift storage.ShiftStatus) error {
	change, appErr := b.managers.SetShift(ctx, msg.From.ID, shift)
	if appErr != nil {
		if appErr.Code == apperrors.ErrNotFound {
			return b.sender.SendMessage(ctx, msg.Chat.ID, "Вы не зарегистрированы как менеджер.", nil)
		}
		return appErr
	}

	text := "Статус: " + shiftLabel(change.Manager.Shift)
	if n := len(change.Released); n > 0 {
		text += fmt.Sprintf("\nВозвращено в очередь заявок: %d", n)
	}
	return b.sender.SendMessage(ctx, msg.Chat.ID, text, managerKeyboard())
}

func (b *Bot) handleActive(ctx context.Context, msg *Message) error {
	app, appErr := b.apps.ActiveFor(ctx, msg.From.ID)
	if appErr != nil {
		if appErr.Code == apperrors.ErrNotFound {
			return b.sender.SendMessage(ctx, msg.Chat.ID, "Нет активных заявок.", nil)
		}
		return appErr
	}

	text := fmt.Sprintf("🏃 Активная:\n👤 %s\n📞 %s", app.CandidateName, app.Phone)
	return b.sender.SendMessage(ctx, msg.Chat.ID, text, applicationKeyboard(app))
}

func (b *Bot) handleLink(ctx context.Context, msg *Message) error {
	if b.partnerURL == "" {
		return b.sender.SendMessage(ctx, msg.Chat.ID, "Партнерская ссылка не настроена.", nil)
	}
	text := fmt.Sprintf("Партнерская ссылка:\n%s?start=%d", b.partnerURL, msg.From.ID)
	return b.sender.SendMessage(ctx, msg.Chat.ID, text, nil)
}

func (b *Bot) handleCallback(ctx context.Context, cb *CallbackQuery) error {
	status, id, ok := parseOutcomeCallback(cb.Data)
	if !ok {
		return b.sender.AnswerCallbackQuery(ctx, cb.ID, "")
	}

	_, appErr := b.apps.SetOutcome(ctx, id, status)
	if appErr != nil {
		switch appErr.Code {
		case apperrors.ErrApplicationClosed:
			return b.sender.AnswerCallbackQuery(ctx, cb.ID, "Заявка уже закрыта.")
		case apperrors.ErrNotAssigned:
			return b.sender.AnswerCallbackQuery(ctx, cb.ID, "Заявка ещё не назначена.")
		case apperrors.ErrNotFound:
			return b.sender.AnswerCallbackQuery(ctx, cb.ID, "Заявка не найдена.")
		default:
			_ = b.sender.AnswerCallbackQuery(ctx, cb.ID, "Ошибка, попробуйте позже.")
			return appErr
		}
	}

	if cb.Message != nil {
		text := cb.Message.Text + "\n\n🏁 Результат: " + outcomeLabel(status)
		if err := b.sender.EditMessageText(ctx, cb.Message.Chat.ID, cb.Message.MessageID, text); err != nil {
			b.logger.Warn("edit outcome message failed", slog.Int64("application_id", id), slog.String("error", err.Error()))
		}
	}
	return b.sender.AnswerCallbackQuery(ctx, cb.ID, "")
}

// parseOutcomeCallback разбирает status_lead_<id> и status_notlead_<id>.
func parseOutcomeCallback(data string) (storage.ApplicationStatus, int64, bool) {
	rest, ok := strings.CutPrefix(data, callbackPrefix)
	if !ok {
		return "", 0, false
	}
	kind, rawID, ok := strings.Cut(rest, "_")
	if !ok {
		return "", 0, false
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, false
	}

	switch kind {
	case callbackLead:
		return storage.StatusAccepted, id, true
	case callbackNotLead:
		return storage.StatusRejected, id, true
	default:
		return "", 0, false
	}
}

func outcomeCallback(kind string, id int64) string {
	return callbackPrefix + kind + "_" + strconv.FormatInt(id, 10)
}

func outcomeLabel(status storage.ApplicationStatus) string {
	if status == storage.StatusAccepted {
		return "✅ ЛИД"
	}
	return "❌ НЕ ЛИД"
}

func shiftLabel(shift storage.ShiftStatus) string {
	if shift == storage.ShiftOn {
		return "На смене"
	}
	return "Вне смены"
}

func managerKeyboard() ReplyKeyboardMarkup {
	return ReplyKeyboardMarkup{
		Keyboard: [][]KeyboardButton{
			{{Text: btnStartShift}, {Text: btnEndShift}},
			{{Text: btnActive}, {Text: btnLink}},
		},
		ResizeKeyboard: true,
	}
}

func replyKeyboard(labels ...string) ReplyKeyboardMarkup {
	row := make([]KeyboardButton, 0, len(labels))
	for _, l := range labels {
		row = append(row, KeyboardButton{Text: l})
	}
	return ReplyKeyboardMarkup{Keyboard: [][]KeyboardButton{row}, ResizeKeyboard: true}
}

func contactKeyboard() ReplyKeyboardMarkup {
	return ReplyKeyboardMarkup{
		Keyboard:       [][]KeyboardButton{{{Text: btnContact, RequestContact: true}}},
		ResizeKeyboard: true,
	}
}

// applicationKeyboard - ссылка на кандидата и кнопки решения.
func applicationKeyboard(app storage.Application) InlineKeyboardMarkup {
	var rows [][]InlineKeyboardButton
	switch {
	case app.CandidateUsername != "":
		rows = append(rows, []InlineKeyboardButton{{Text: "💬 Написать кандидату", URL: "https://t.me/" + app.CandidateUsername}})
	case app.CandidateID != 0:
		rows = append(rows, []InlineKeyboardButton{{Text: "💬 Открыть профиль", URL: fmt.Sprintf("tg://user?id=%d", app.CandidateID)}})
	}
	rows = append(rows, []InlineKeyboardButton{
		{Text: "✅ ЛИД", CallbackData: outcomeCallback(callbackLead, app.ID)},
		{Text: "❌ НЕ ЛИД", CallbackData: outcomeCallback(callbackNotLead, app.ID)},
	})
	return InlineKeyboardMarkup{InlineKeyboard: rows}
}
