package memory

import (
	"context"
	"sort"

	"towerverse/internal/app/ports"
	"towerverse/internal/domain/tower"
)

type ResidentRepo struct {
	store *Store
}

func NewResidentRepo(store *Store) ResidentRepo {
	return ResidentRepo{store: store}
}

func (r ResidentRepo) Get(_ context.Context, id string) (tower.Resident, error) {
	res, ok := r.store.residents[id]
	if !ok {
		return tower.Resident{}, ports.ErrNotFound
	}
	return cloneResident(res), nil
}

func (r ResidentRepo) GetByName(_ context.Context, name string) (tower.Resident, error) {
	for _, res := range r.store.residents {
		if res.Name == name {
			return cloneResident(res), nil
		}
	}
	return tower.Resident{}, ports.ErrNotFound
}

func (r ResidentRepo) List(_ context.Context) ([]tower.Resident, error) {
	out := make([]tower.Resident, 0, len(r.store.residents))
	for _, res := range r.store.residents {
		out = append(out, cloneResident(res))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r ResidentRepo) ListByLocation(_ context.Context, locationID string) ([]tower.Resident, error) {
	var out []tower.Resident
	for _, res := range r.store.residents {
		if res.LocationID == locationID {
			out = append(out, cloneResident(res))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r ResidentRepo) Save(_ context.Context, res tower.Resident) error {
	r.store.residents[res.ID] = cloneResident(res)
	return nil
}

func (r ResidentRepo) Count(_ context.Context) (int, error) {
	return len(r.store.residents), nil
}
