package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"baseline_academy/internal/domain/model"
)

type memoryHomeworkRepository struct {
	mu    sync.RWMutex
	items map[string]model.Homework
}

func NewMemoryHomeworkRepository() HomeworkRepository {
	return &memoryHomeworkRepository{items: make(map[string]model.Homework)}
}

func (r *memoryHomeworkRepository) Insert(_ context.Context, h *model.Homework) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	h.CreatedAt = now
	h.UpdatedAt = now
	r.items[h.ID] = *h
	return nil
}

func (r *memoryHomeworkRepository) FindByID(_ context.Context, id string) (*model.Homework, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.items[id]
	if !ok {
		return nil, errHomeworkNotFound
	}
	return &h, nil
}

func (r *memoryHomeworkRepository) Update(_ context.Context, h *model.Homework) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[h.ID]; !ok {
		return errHomeworkNotFound
	}
	h.UpdatedAt = time.Now().UTC()
	r.items[h.ID] = *h
	return nil
}

func (r *memoryHomeworkRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return errHomeworkNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memoryHomeworkRepository) List(_ context.Context, filter HomeworkFilter) ([]model.Homework, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []model.Homework{}
	for _, h := range r.items {
		if filter.Class != "" && h.Class != filter.Class {
			continue
		}
		if filter.Subject != "" && h.Subject != filter.Subject {
			continue
		}
		if filter.Status != "" && h.Status != filter.Status {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DueDate != out[j].DueDate {
			return out[i].DueDate < out[j].DueDate
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}
