package storage

import "context"

// ManagerRepository - репозиторий для управления менеджерами.
type ManagerRepository interface {
	// Upsert создаёт или перезаписывает менеджера и снимает его со смены.
	Upsert(ctx context.Context, m Manager) (ShiftChange, error)
	Get(ctx context.Context, id int64) (Manager, error)
	List(ctx context.Context) ([]Manager, error)
	Delete(ctx context.Context, id int64) error
	// SetShift меняет смену; при уходе со смены заявки в работе возвращаются в очередь.
	SetShift(ctx context.Context, id int64, shift ShiftStatus) (ShiftChange, error)
	// Loads возвращает нагрузку менеджеров на смене.
	Loads(ctx context.Context) ([]ManagerLoad, error)
}

// ApplicationRepository - репозиторий для управления заявками.
type ApplicationRepository interface {
	Create(ctx context.Context, app NewApplication) (Application, error)
	Get(ctx context.Context, id int64) (Application, error)
	ListRecent(ctx context.Context, limit int) ([]ApplicationView, error)
	// ListUnassigned возвращает новые заявки без менеджера, старые первыми.
	ListUnassigned(ctx context.Context) ([]Application, error)
	AssignManually(ctx context.Context, id, managerID int64) (Application, error)
	SetOutcome(ctx context.Context, id int64, status ApplicationStatus) (Application, error)
	Delete(ctx context.Context, id int64) error
	// ActiveFor возвращает последнюю заявку в работе у менеджера.
	ActiveFor(ctx context.Context, managerID int64) (Application, error)
	Stats(ctx context.Context) (Stats, error)
}

// Picker выбирает менеджера по нагрузке. false - выбрать некого.
type Picker func(loads []ManagerLoad) (ManagerLoad, bool)

// Assigner атомарно оценивает нагрузку, выбирает менеджера и назначает заявку.
type Assigner interface {
	AssignLeastLoaded(ctx context.Context, id int64, pick Picker) (Assignment, bool, error)
}

// SettingsRepository хранит флаг автораспределения.
type SettingsRepository interface {
	AutoDistribution(ctx context.Context) (bool, error)
	SetAutoDistribution(ctx context.Context, enabled bool) error
	// ToggleAutoDistribution инвертирует флаг и возвращает новое значение.
	ToggleAutoDistribution(ctx context.Context) (bool, error)
}
