// Package metrics описывает счётчики распределения заявок.
package metrics

import "time"

// Recorder принимает события распределения. Все методы безопасны для конкурентного вызова.
type Recorder interface {
	// AssignmentMade - заявка назначена; source: auto, sweep или manual.
	AssignmentMade(source string)
	// AssignmentSkipped - назначение не состоялось; reason: disabled, no_manager, already_assigned.
	AssignmentSkipped(reason string)
	// NotificationFailed - не удалось отправить уведомление вида kind.
	NotificationFailed(kind string)
	// SweepCompleted - проход завершён.
	SweepCompleted(d time.Duration, assigned, failed int)
	// SweepSkipped - тик пропущен, предыдущий проход ещё идёт.
	SweepSkipped()
	// ShiftReleased - n заявок вернулись в очередь после ухода менеджера со смены.
	ShiftReleased(n int)
}

// Nop отбрасывает все события.
type Nop struct{}

var _ Recorder = Nop{}

// AssignmentMade ничего не делает.
func (Nop) AssignmentMade(string) {}

// AssignmentSkipped ничего не делает.
func (Nop) AssignmentSkipped(string) {}

// NotificationFailed ничего не делает.
func (Nop) NotificationFailed(string) {}

// SweepCompleted ничего не делает.
func (Nop) SweepCompleted(time.Duration, int, int) {}

// SweepSkipped ничего не делает.
func (Nop) SweepSkipped() {}

// ShiftReleased ничего не делает.
func (Nop) ShiftReleased(int) {}
