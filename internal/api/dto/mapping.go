package dto

import "github.com/tokarboss/manager-ya/internal/storage"

// ToStorage DTO -> storage.NewApplication.
func (r ApplicationRequest) ToStorage() storage.NewApplication {
	return storage.NewApplication{
		CandidateID:       r.CandidateID,
		CandidateName:     r.CandidateName,
		CandidateUsername: r.CandidateUsername,
		Info:              r.Info,
		Phone:             r.Phone,
	}
}

// FromStorageManager storage.Manager -> DTO.
func FromStorageManager(m storage.Manager) ManagerResponse {
	return ManagerResponse{
		ID:        m.ID,
		Name:      m.Name,
		Username:  m.Username,
		Shift:     string(m.Shift),
		UpdatedAt: m.UpdatedAt,
	}
}

// FromStorageManagers []storage.Manager -> DTO.
func FromStorageManagers(ms []storage.Manager) []ManagerResponse {
	out := make([]ManagerResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromStorageManager(m))
	}
	return out
}

// FromStorageShiftChange storage.ShiftChange -> DTO.
func FromStorageShiftChange(c storage.ShiftChange) ShiftResponse {
	released := c.Released
	if released == nil {
		released = []int64{}
	}
	return ShiftResponse{Manager: FromStorageManager(c.Manager), Released: released}
}

// FromStorageLoad storage.ManagerLoad -> DTO.
func FromStorageLoad(l storage.ManagerLoad) ManagerLoadResponse {
	return ManagerLoadResponse{
		ManagerID: l.ManagerID,
		Name:      l.Name,
		Username:  l.Username,
		Count:     l.Count,
	}
}

// FromStorageLoads []storage.ManagerLoad -> DTO.
func FromStorageLoads(ls []storage.ManagerLoad) []ManagerLoadResponse {
	out := make([]ManagerLoadResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, FromStorageLoad(l))
	}
	return out
}

// FromStorageApplication storage.Application -> DTO.
func FromStorageApplication(a storage.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:                a.ID,
		CandidateID:       a.CandidateID,
		CandidateName:     a.CandidateName,
		CandidateUsername: a.CandidateUsername,
		Info:              a.Info,
		Phone:             a.Phone,
		Status:            string(a.Status),
		ManagerID:         a.ManagerID,
		CreatedAt:         a.CreatedAt,
	}
}

// FromStorageViews []storage.ApplicationView -> DTO.
func FromStorageViews(vs []storage.ApplicationView) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(vs))
	for _, v := range vs {
		a := FromStorageApplication(v.Application)
		a.ManagerName = v.ManagerName
		out = append(out, a)
	}
	return out
}

// FromStorageStats storage.Stats -> DTO.
func FromStorageStats(s storage.Stats) StatsResponse {
	return StatsResponse{Total: s.Total, Accepted: s.Accepted, Rejected: s.Rejected}
}
