package schedule

import (
	"context"
	"fmt"
	"sort"
	"sync"

	scheduleRepo "beautypage/database/repository/schedule"
	"beautypage/models"
)

// memRepo is an in-memory ScheduleRepository. RunInTx snapshots state and restores it on error.
type memRepo struct {
	mu           sync.Mutex
	days         map[string]models.WorkingDay // key: specialist|date
	breaks       map[string][]models.Break    // key: working day id
	appointments []models.Appointment
	configs      map[string]models.ScheduleConfig
	nextID       int

	insertBreaksErr error
	upsertCalls     int
	findDatesErr    error
}

func newMemRepo() *memRepo {
	return &memRepo{
		days:    map[string]models.WorkingDay{},
		breaks:  map[string][]models.Break{},
		configs: map[string]models.ScheduleConfig{},
	}
}

func dayKey(specialistID, date string) string { return specialistID + "|" + date }

func (r *memRepo) FindWorkingDays(ctx context.Context, specialistID, from, to string) ([]models.WorkingDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.WorkingDay{}
	for _, d := range r.days {
		if d.SpecialistID == specialistID && d.Date >= from && d.Date <= to {
			d.Breaks = append([]models.Break{}, r.breaks[d.ID]...)
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *memRepo) FindWorkingDayDates(ctx context.Context, specialistID string, dates []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findDatesErr != nil {
		return nil, r.findDatesErr
	}
	out := []string{}
	for _, date := range dates {
		if _, ok := r.days[dayKey(specialistID, date)]; ok {
			out = append(out, date)
		}
	}
	return out, nil
}

func (r *memRepo) UpsertWorkingDays(ctx context.Context, rows []models.WorkingDay) ([]models.WorkingDayRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertCalls++
	refs := make([]models.WorkingDayRef, 0, len(rows))
	for _, row := range rows {
		key := dayKey(row.SpecialistID, row.Date)
		existing, ok := r.days[key]
		if ok {
			row.ID = existing.ID
		} else {
			r.nextID++
			row.ID = fmt.Sprintf("wd-%d", r.nextID)
		}
		row.Breaks = nil
		r.days[key] = row
		refs = append(refs, models.WorkingDayRef{ID: row.ID, Date: row.Date})
	}
	return refs, nil
}

func (r *memRepo) DeleteBreaks(ctx context.Context, workingDayIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range workingDayIDs {
		delete(r.breaks, id)
	}
	return nil
}

func (r *memRepo) InsertBreaks(ctx context.Context, rows []models.Break) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertBreaksErr != nil {
		return r.insertBreaksErr
	}
	for _, b := range rows {
		r.nextID++
		b.ID = fmt.Sprintf("br-%d", r.nextID)
		r.breaks[b.WorkingDayID] = append(r.breaks[b.WorkingDayID], b)
	}
	return nil
}

func (r *memRepo) DeleteWorkingDays(ctx context.Context, specialistID string, dates []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, date := range dates {
		key := dayKey(specialistID, date)
		if d, ok := r.days[key]; ok {
			delete(r.breaks, d.ID)
			delete(r.days, key)
			n++
		}
	}
	return n, nil
}

func (r *memRepo) FindAppointments(ctx context.Context, specialistID, from, to string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range r.appointments {
		if a.SpecialistID == specialistID && a.Date >= from && a.Date <= to {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memRepo) GetScheduleConfig(ctx context.Context, specialistID string) (*models.ScheduleConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.configs[specialistID]
	if !ok {
		return nil, scheduleRepo.ErrNotFound
	}
	return &cfg, nil
}

func (r *memRepo) UpsertScheduleConfig(ctx context.Context, cfg models.ScheduleConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[cfg.SpecialistID] = cfg
	return nil
}

func (r *memRepo) RunInTx(ctx context.Context, fn func(ctx context.Context, repo scheduleRepo.ScheduleRepository) error) error {
	r.mu.Lock()
	days := make(map[string]models.WorkingDay, len(r.days))
	for k, v := range r.days {
		days[k] = v
	}
	breaks := make(map[string][]models.Break, len(r.breaks))
	for k, v := range r.breaks {
		breaks[k] = append([]models.Break(nil), v...)
	}
	r.mu.Unlock()

	if err := fn(ctx, r); err != nil {
		r.mu.Lock()
		r.days, r.breaks = days, breaks
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *memRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *memRepo) dayCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.days)
}

func (r *memRepo) breakCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range r.breaks {
		n += len(b)
	}
	return n
}
