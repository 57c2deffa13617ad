package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/tokarboss/manager-ya/internal/storage"
)

// ApplicationRepository - репозиторий заявок в памяти.
type ApplicationRepository struct {
	s *Store
}

// Create сохраняет новую заявку без менеджера.
func (r *ApplicationRepository) Create(_ context.Context, in storage.NewApplication) (storage.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextID++
	app := storage.Application{
		ID:                r.s.nextID,
		CandidateID:       in.CandidateID,
		CandidateName:     in.CandidateName,
		CandidateUsername: in.CandidateUsername,
		Info:              in.Info,
		Phone:             in.Phone,
		Status:            storage.StatusNew,
		CreatedAt:         r.s.now(),
	}
	r.s.applications[app.ID] = app
	return app, nil
}

// Get возвращает заявку по id.
func (r *ApplicationRepository) Get(_ context.Context, id int64) (storage.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	app, ok := r.s.applications[id]
	if !ok {
		return storage.Application{}, storage.ErrNotFound
	}
	return app, nil
}

// ListRecent возвращает последние limit заявок с именами менеджеров.
func (r *ApplicationRepository) ListRecent(_ context.Context, limit int) ([]storage.ApplicationView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	views := make([]storage.ApplicationView, 0, len(r.s.applications))
	for _, a := range r.s.applications {
		v := storage.ApplicationView{Application: a}
		if a.ManagerID != nil {
			v.ManagerName = r.s.managers[*a.ManagerID].Name
		}
		views = append(views, v)
	}
	slices.SortFunc(views, func(a, b storage.ApplicationView) int { return cmp.Compare(b.ID, a.ID) })

	if limit >= 0 && len(views) > limit {
		views = views[:limit]
	}
	return views, nil
}

// ListUnassigned возвращает новые заявки без менеджера по возрастанию id.
func (r *ApplicationRepository) ListUnassigned(_ context.Context) ([]storage.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var apps []storage.Application
	for _, a := range r.s.applications {
		if a.Status == storage.StatusNew && a.ManagerID == nil {
			apps = append(apps, a)
		}
	}
	slices.SortFunc(apps, func(a, b storage.Application) int { return cmp.Compare(a.ID, b.ID) })
	return apps, nil
}

// AssignLeastLoaded оценивает нагрузку и назначает заявку под общим мьютексом.
func (r *ApplicationRepository) AssignLeastLoaded(_ context.Context, id int64, pick storage.Picker) (storage.Assignment, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	app, ok := r.s.applications[id]
	if !ok {
		return storage.Assignment{}, false, storage.ErrNotFound
	}
	if app.Status != storage.StatusNew || app.ManagerID != nil {
		return storage.Assignment{}, false, storage.ErrAlreadyAssigned
	}

	choice, ok := pick(r.s.loadsLocked())
	if !ok {
		return storage.Assignment{}, false, nil
	}

	app.ManagerID = managerRef(choice.ManagerID)
	app.Status = storage.StatusInProgress
	r.s.applications[id] = app

	return storage.Assignment{Application: app, Manager: choice}, true, nil
}

// AssignManually назначает заявку указанному менеджеру на смене.
func (r *ApplicationRepository) AssignManually(_ context.Context, id, managerID int64) (storage.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.managers[managerID]
	if !ok {
		return storage.Application{}, storage.ErrNotFound
	}
	if m.Shift != storage.ShiftOn {
		return storage.Application{}, storage.ErrManagerOffShift
	}
	app, ok := r.s.applications[id]
	if !ok {
		return storage.Application{}, storage.ErrNotFound
	}
	if app.Status.IsTerminal() {
		return app, storage.ErrApplicationClosed
	}

	app.ManagerID = managerRef(managerID)
	app.Status = storage.StatusInProgress
	r.s.applications[id] = app
	return app, nil
}

// SetOutcome записывает терминальный статус один раз. Заявка должна быть в работе.
func (r *ApplicationRepository) SetOutcome(_ context.Context, id int64, status storage.ApplicationStatus) (storage.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	app, ok := r.s.applications[id]
	if !ok {
		return storage.Application{}, storage.ErrNotFound
	}
	switch app.Status {
	case storage.StatusAccepted, storage.StatusRejected:
		return app, storage.ErrApplicationClosed
	case storage.StatusNew:
		return app, storage.ErrNotAssigned
	}

	app.Status = status
	r.s.applications[id] = app
	return app, nil
}

// Delete удаляет заявку.
func (r *ApplicationRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.applications[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.s.applications, id)
	return nil
}

// ActiveFor возвращает последнюю заявку в работе у менеджера.
func (r *ApplicationRepository) ActiveFor(_ context.Context, managerID int64) (storage.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var (
		latest storage.Application
		found  bool
	)
	for _, a := range r.s.applications {
		if a.Status != storage.StatusInProgress || a.ManagerID == nil || *a.ManagerID != managerID {
			continue
		}
		if !found || a.ID > latest.ID {
			latest, found = a, true
		}
	}
	if !found {
		return storage.Application{}, storage.ErrNotFound
	}
	return latest, nil
}

// Stats возвращает сводные счётчики.
func (r *ApplicationRepository) Stats(_ context.Context) (storage.Stats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st := storage.Stats{Total: len(r.s.applications)}
	for _, a := range r.s.applications {
		switch a.Status {
		case storage.StatusAccepted:
			st.Accepted++
		case storage.StatusRejected:
			st.Rejected++
		}
	}
	return st, nil
}
