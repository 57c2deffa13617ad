// Package telegram - бот для анкет кандидатов и рабочего места менеджера поверх Telegram Bot API.
package telegram

import "strings"

// Update - обновление из getUpdates.
type Update struct {
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
	UpdateID      int64          `json:"update_id"`
}

// Message - входящее сообщение.
type Message struct {
	Contact   *Contact `json:"contact,omitempty"`
	Text      string   `json:"text"`
	From      User     `json:"from"`
	Chat      Chat     `json:"chat"`
	MessageID int64    `json:"message_id"`
}

// Chat - чат сообщения.
type Chat struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
}

// User - отправитель.
type User struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ID        int64  `json:"id"`
}

// FullName склеивает имя и фамилию.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Contact - контакт, отправленный кнопкой.
type Contact struct {
	PhoneNumber string `json:"phone_number"`
	UserID      int64  `json:"user_id,omitempty"`
}

// CallbackQuery - нажатие инлайн-кнопки.
type CallbackQuery struct {
	Message *Message `json:"message,omitempty"`
	ID      string   `json:"id"`
	Data    string   `json:"data"`
	From    User     `json:"from"`
}

// ReplyKeyboardMarkup - обычная клавиатура.
type ReplyKeyboardMarkup struct {
	Keyboard        [][]KeyboardButton `json:"keyboard"`
	ResizeKeyboard  bool               `json:"resize_keyboard,omitempty"`
	OneTimeKeyboard bool               `json:"one_time_keyboard,omitempty"`
}

// KeyboardButton - кнопка обычной клавиатуры.
type KeyboardButton struct {
	Text           string `json:"text"`
	RequestContact bool   `json:"request_contact,omitempty"`
}

// ReplyKeyboardRemove убирает клавиатуру.
type ReplyKeyboardRemove struct {
	RemoveKeyboard bool `json:"remove_keyboard"`
}

// InlineKeyboardMarkup - инлайн-клавиатура под сообщением.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// InlineKeyboardButton - ссылка или кнопка с callback_data.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	URL          string `json:"url,omitempty"`
	CallbackData string `json:"callback_data,omitempty"`
}
