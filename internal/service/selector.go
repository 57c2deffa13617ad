package service

import "github.com/tokarboss/manager-ya/internal/storage"

// SelectManager выбирает менеджера с наименьшим числом заявок в работе.
// При равенстве побеждает меньший id, порядок входа не важен. false - список пуст.
func SelectManager(loads []storage.ManagerLoad) (storage.ManagerLoad, bool) {
	if len(loads) == 0 {
		return storage.ManagerLoad{}, false
	}

	best := loads[0]
	for _, l := range loads[1:] {
		if l.Count < best.Count || (l.Count == best.Count && l.ManagerID < best.ManagerID) {
			best = l
		}
	}
	return best, true
}
