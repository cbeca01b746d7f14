package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"baseline_academy/internal/domain/model"
)

type memoryFeeRepository struct {
	mu   sync.Mutex
	fees map[string]model.FeeAccount
}

func NewMemoryFeeRepository() FeeRepository {
	return &memoryFeeRepository{fees: make(map[string]model.FeeAccount)}
}

func (r *memoryFeeRepository) Insert(_ context.Context, f *model.FeeAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now
	r.fees[f.ID] = *f
	return nil
}

func (r *memoryFeeRepository) FindByID(_ context.Context, id string) (*model.FeeAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.fees[id]
	if !ok {
		return nil, errFeeNotFound
	}
	return &f, nil
}

func (r *memoryFeeRepository) List(_ context.Context, class string) ([]model.FeeAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []model.FeeAccount{}
	for _, f := range r.fees {
		if class == "" || f.Class == class {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentName < out[j].StudentName })
	return out, nil
}

func (r *memoryFeeRepository) AddPayment(_ context.Context, id string, amount int64, paidOn string) (*model.FeeAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.fees[id]
	if !ok {
		return nil, errFeeNotFound
	}
	if f.PaidFees+amount > f.TotalFees {
		return nil, errPaymentTooLarge
	}
	f.PaidFees += amount
	f.LastPaymentDate = paidOn
	f.UpdatedAt = time.Now().UTC()
	r.fees[id] = f
	return &f, nil
}

func (r *memoryFeeRepository) DeleteByStudent(_ context.Context, studentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, f := range r.fees {
		if f.StudentID == studentID {
			delete(r.fees, id)
		}
	}
	return nil
}
