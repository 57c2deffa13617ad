// Package memory реализует репозитории storage в памяти процесса.
// Используется как запасной драйвер без базы и в тестах сервисов.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/tokarboss/manager-ya/internal/storage"
)

// Store - общее состояние для всех репозиториев в памяти.
// Один мьютекс сериализует назначения так же, как advisory-блокировка в Postgres.
type Store struct {
	mu           sync.Mutex
	managers     map[int64]storage.Manager
	applications map[int64]storage.Application
	autoDist     bool
	nextID       int64
	now          func() time.Time
}

// NewStore создаёт пустое хранилище.
func NewStore() *Store {
	return &Store{
		managers:     make(map[int64]storage.Manager),
		applications: make(map[int64]storage.Application),
		now:          time.Now,
	}
}

// Managers возвращает репозиторий менеджеров поверх хранилища.
func (s *Store) Managers() *ManagerRepository { return &ManagerRepository{s: s} }

// Applications возвращает репозиторий заявок поверх хранилища.
func (s *Store) Applications() *ApplicationRepository { return &ApplicationRepository{s: s} }

// Settings возвращает репозиторий флагов поверх хранилища.
func (s *Store) Settings() *SettingsRepository { return &SettingsRepository{s: s} }

// loadsLocked считает нагрузку менеджеров на смене. Вызывается под s.mu.
func (s *Store) loadsLocked() []storage.ManagerLoad {
	counts := make(map[int64]int)
	for _, a := range s.applications {
		if a.Status == storage.StatusInProgress && a.ManagerID != nil {
			counts[*a.ManagerID]++
		}
	}

	loads := make([]storage.ManagerLoad, 0, len(s.managers))
	for _, m := range s.managers {
		if m.Shift != storage.ShiftOn {
			continue
		}
		loads = append(loads, storage.ManagerLoad{
			ManagerID: m.ID,
			Name:      m.Name,
			Username:  m.Username,
			Count:     counts[m.ID],
		})
	}

	slices.SortFunc(loads, func(a, b storage.ManagerLoad) int {
		if c := cmp.Compare(a.Count, b.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.ManagerID, b.ManagerID)
	})
	return loads
}

// releaseLocked возвращает в очередь заявки менеджера в работе. Вызывается под s.mu.
func (s *Store) releaseLocked(managerID int64) []int64 {
	var released []int64
	for id, a := range s.applications {
		if a.Status != storage.StatusInProgress || a.ManagerID == nil || *a.ManagerID != managerID {
			continue
		}
		a.Status = storage.StatusNew
		a.ManagerID = nil
		s.applications[id] = a
		released = append(released, id)
	}
	slices.Sort(released)
	return released
}

func managerRef(id int64) *int64 { return &id }

// ManagerRepository - репозиторий менеджеров в памяти.
type ManagerRepository struct {
	s *Store
}

// Upsert создаёт менеджера или перезаписывает имя и ник, сбрасывая смену.
func (r *ManagerRepository) Upsert(_ context.Context, m storage.Manager) (storage.ShiftChange, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m.Shift = storage.ShiftOff
	m.UpdatedAt = r.s.now()
	r.s.managers[m.ID] = m

	return storage.ShiftChange{Manager: m, Released: r.s.releaseLocked(m.ID)}, nil
}

// Get возвращает менеджера по id.
func (r *ManagerRepository) Get(_ context.Context, id int64) (storage.Manager, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.managers[id]
	if !ok {
		return storage.Manager{}, storage.ErrNotFound
	}
	return m, nil
}

// List возвращает всех менеджеров по возрастанию id.
func (r *ManagerRepository) List(_ context.Context) ([]storage.Manager, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	managers := make([]storage.Manager, 0, len(r.s.managers))
	for _, m := range r.s.managers {
		managers = append(managers, m)
	}
	slices.SortFunc(managers, func(a, b storage.Manager) int { return cmp.Compare(a.ID, b.ID) })
	return managers, nil
}

// Delete удаляет менеджера. Ссылки из заявок остаются.
func (r *ManagerRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.managers[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.s.managers, id)
	return nil
}

// SetShift меняет смену и при уходе освобождает заявки.
func (r *ManagerRepository) SetShift(_ context.Context, id int64, shift storage.ShiftStatus) (storage.ShiftChange, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.managers[id]
	if !ok {
		return storage.ShiftChange{}, storage.ErrNotFound
	}
	m.Shift = shift
	m.UpdatedAt = r.s.now()
	r.s.managers[id] = m

	change := storage.ShiftChange{Manager: m}
	if shift == storage.ShiftOff {
		change.Released = r.s.releaseLocked(id)
	}
	return change, nil
}

// Loads возвращает нагрузку менеджеров на смене.
func (r *ManagerRepository) Loads(_ context.Context) ([]storage.ManagerLoad, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.loadsLocked(), nil
}

// SettingsRepository - флаг автораспределения в памяти.
type SettingsRepository struct {
	s *Store
}

// AutoDistribution читает флаг.
func (r *SettingsRepository) AutoDistribution(_ context.Context) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.autoDist, nil
}

// SetAutoDistribution записывает флаг.
func (r *SettingsRepository) SetAutoDistribution(_ context.Context, enabled bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.autoDist = enabled
	return nil
}

// ToggleAutoDistribution инвертирует флаг.
func (r *SettingsRepository) ToggleAutoDistribution(_ context.Context) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.autoDist = !r.s.autoDist
	return r.s.autoDist, nil
}
