package telegram

import "github.com/puzpuzpuz/xsync/v4"

// step - шаг анкеты кандидата.
type step int

const (
	stepAge step = iota + 1
	stepCity
	stepCitizenship
	stepTransport
	stepContact
)

// form - ответы кандидата на пройденные шаги.
type form struct {
	City        string
	Citizenship string
	Transport   string
	Step        step
}

// Info собирает ответы в строку "город | гражданство | транспорт".
func (f form) Info() string {
	return f.City + " | " + f.Citizenship + " | " + f.Transport
}

// conversations хранит анкеты по id чата.
type conversations struct {
	forms *xsync.Map[int64, form]
}

func newConversations() *conversations {
	return &conversations{forms: xsync.NewMap[int64, form]()}
}

func (c *conversations) get(chatID int64) (form, bool) {
	return c.forms.Load(chatID)
}

func (c *conversations) set(chatID int64, f form) {
	c.forms.Store(chatID, f)
}

func (c *conversations) clear(chatID int64) {
	c.forms.Delete(chatID)
}

func (c *conversations) size() int {
	return c.forms.Size()
}
