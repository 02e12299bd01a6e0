package promo

import (
	"context"
	"fmt"
	"sync"

	"tour-booking/internal/model"
)

// MemoryStore is a map-backed Store and Writer.
type MemoryStore struct {
	mu    sync.RWMutex
	codes map[string]model.PromoCode
}

// NewMemoryStore creates an in-memory promo store holding codes as given,
// usage counts included.
func NewMemoryStore(codes ...model.PromoCode) *MemoryStore {
	s := &MemoryStore{
		codes: make(map[string]model.PromoCode, len(codes)),
	}
	for _, code := range codes {
		code.Code = NormalizeCode(code.Code)
		code.ApplicableTours = append([]int64(nil), code.ApplicableTours...)
		s.codes[code.Code] = code
	}
	return s
}

// GetByCode returns a copy of the stored code, or nil if absent.
func (s *MemoryStore) GetByCode(_ context.Context, code string) (*model.PromoCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pc, ok := s.codes[NormalizeCode(code)]
	if !ok {
		return nil, nil
	}
	pc.ApplicableTours = append([]int64(nil), pc.ApplicableTours...)
	return &pc, nil
}

// Upsert stores code, keeping the usage count of an existing entry.
func (s *MemoryStore) Upsert(_ context.Context, code *model.PromoCode) error {
	if code == nil {
		return fmt.Errorf("promo code is nil")
	}

	key := NormalizeCode(code.Code)
	if key == "" {
		return fmt.Errorf("promo code is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pc := *code
	pc.Code = key
	pc.ApplicableTours = append([]int64(nil), code.ApplicableTours...)
	if existing, ok := s.codes[key]; ok {
		pc.TimesUsed = existing.TimesUsed
	}
	s.codes[key] = pc
	return nil
}

// Size returns the number of codes in the store.
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.codes)
}
