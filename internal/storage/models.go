// Package storage содержит модели данных и интерфейсы репозиториев.
package storage

import (
	"errors"
	"time"
)

var (
	// ErrNotFound - запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrApplicationClosed - заявка уже в терминальном статусе.
	ErrApplicationClosed = errors.New("application is closed")
	// ErrAlreadyAssigned - заявка перестала быть новой до назначения.
	ErrAlreadyAssigned = errors.New("application is no longer unassigned")
	// ErrManagerOffShift - менеджер вне смены и не может получить заявку.
	ErrManagerOffShift = errors.New("manager is off shift")
	// ErrNotAssigned - решение по заявке без менеджера.
	ErrNotAssigned = errors.New("application is not assigned")
)

// ShiftStatus - статус смены менеджера.
type ShiftStatus string

const (
	// ShiftOff - менеджер вне смены.
	ShiftOff ShiftStatus = "OFF_SHIFT"
	// ShiftOn - менеджер на смене и получает заявки.
	ShiftOn ShiftStatus = "ON_SHIFT"
)

// IsValid возвращает true для одного из двух допустимых статусов.
func (s ShiftStatus) IsValid() bool {
	switch s {
	case ShiftOff, ShiftOn:
		return true
	default:
		return false
	}
}

// ApplicationStatus - статус заявки.
type ApplicationStatus string

const (
	// StatusNew - заявка ждёт менеджера.
	StatusNew ApplicationStatus = "NEW"
	// StatusInProgress - заявка назначена менеджеру.
	StatusInProgress ApplicationStatus = "IN_PROGRESS"
	// StatusAccepted - кандидат принят.
	StatusAccepted ApplicationStatus = "ACCEPTED"
	// StatusRejected - кандидат отклонён.
	StatusRejected ApplicationStatus = "REJECTED"
)

// IsValid проверяет, что статус входит в перечисление.
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal сообщает, что после статуса заявку менять нельзя.
func (s ApplicationStatus) IsTerminal() bool {
	switch s {
	case StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}

// Manager - менеджер, который обрабатывает заявки.
type Manager struct {
	UpdatedAt time.Time
	Name      string
	Username  string
	Shift     ShiftStatus
	ID        int64
}

// Application - анкета кандидата.
type Application struct {
	CreatedAt         time.Time
	ManagerID         *int64
	CandidateName     string
	CandidateUsername string
	Info              string
	Phone             string
	Status            ApplicationStatus
	ID                int64
	CandidateID       int64
}

// NewApplication - данные завершённой анкеты.
type NewApplication struct {
	CandidateName     string
	CandidateUsername string
	Info              string
	Phone             string
	CandidateID       int64
}

// ApplicationView - заявка с именем менеджера для списка.
type ApplicationView struct {
	ManagerName string
	Application
}

// ManagerLoad - число заявок в работе у менеджера на смене.
type ManagerLoad struct {
	Name      string
	Username  string
	ManagerID int64
	Count     int
}

// Assignment - результат автоматического назначения.
type Assignment struct {
	Manager     ManagerLoad
	Application Application
}

// ShiftChange - новый статус менеджера и освобождённые заявки.
type ShiftChange struct {
	Released []int64
	Manager  Manager
}

// Stats - сводные счётчики для дашборда.
type Stats struct {
	Total    int
	Accepted int
	Rejected int
}
