package repository

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"baseline_academy/internal/common"
	"baseline_academy/internal/domain/model"
)

type memoryStudentRepository struct {
	mu       sync.RWMutex
	students map[string]model.Student
}

func NewMemoryStudentRepository() StudentRepository {
	return &memoryStudentRepository{students: make(map[string]model.Student)}
}

func (r *memoryStudentRepository) Insert(_ context.Context, s *model.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.students {
		if existing.Class == s.Class && existing.RollNumber == s.RollNumber {
			return common.ErrDuplicateRollNumber
		}
	}

	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.students[s.ID] = *s
	return nil
}

func (r *memoryStudentRepository) FindByID(_ context.Context, id string) (*model.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.students[id]
	if !ok {
		return nil, errStudentNotFound
	}
	return &s, nil
}

func (r *memoryStudentRepository) Search(_ context.Context, q string) ([]model.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q = strings.TrimSpace(q)
	needle := strings.ToLower(q)
	out := []model.Student{}
	for _, s := range r.students {
		if q == "" || s.ID == q ||
			strings.Contains(strings.ToLower(s.FullName), needle) ||
			strings.Contains(strings.ToLower(s.RollNumber), needle) ||
			strings.Contains(strings.ToLower(s.Class), needle) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (r *memoryStudentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.students[id]; !ok {
		return errStudentNotFound
	}
	delete(r.students, id)
	return nil
}

func (r *memoryStudentRepository) MaxRollSequence(_ context.Context, class, prefix string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	highest := 0
	for _, s := range r.students {
		if s.Class != class {
			continue
		}
		suffix, ok := strings.CutPrefix(s.RollNumber, prefix+"-")
		if !ok || suffix == "" || strings.Trim(suffix, "0123456789") != "" {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n > highest {
			highest = n
		}
	}
	return highest, nil
}

func (r *memoryStudentRepository) Counts(_ context.Context) (int, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	active := 0
	for _, s := range r.students {
		if s.Status == model.StudentActive {
			active++
		}
	}
	return len(r.students), active, nil
}
