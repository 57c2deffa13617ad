package service

import (
	"context"

	"github.com/tokarboss/manager-ya/internal/storage"
)

// AssignmentSource - откуда пришло назначение.
type AssignmentSource string

const (
	// SourceAuto - назначение сразу после подачи анкеты.
	SourceAuto AssignmentSource = "auto"
	// SourceSweep - назначение фоновым проходом.
	SourceSweep AssignmentSource = "sweep"
	// SourceManual - назначение администратором.
	SourceManual AssignmentSource = "manual"
)

// Notifier доставляет уведомления участникам. Ошибки доставки не откатывают изменения.
type Notifier interface {
	ManagerAssigned(ctx context.Context, managerID int64, app storage.Application, source AssignmentSource) error
	CandidateAccepted(ctx context.Context, app storage.Application) error
}

// NopNotifier ничего не отправляет. Используется без токена бота.
type NopNotifier struct{}

// ManagerAssigned ничего не делает.
func (NopNotifier) ManagerAssigned(context.Context, int64, storage.Application, AssignmentSource) error {
	return nil
}

// CandidateAccepted ничего не делает.
func (NopNotifier) CandidateAccepted(context.Context, storage.Application) error { return nil }
