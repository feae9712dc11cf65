package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/conon21154/lineguide/internal/model"
)

// MemoryStore keeps jobs in process memory. Used when no database is
// configured; everything is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	jobs    map[uuid.UUID]model.Job
	records map[uuid.UUID]map[int]model.AddressRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:    make(map[uuid.UUID]model.Job),
		records: make(map[uuid.UUID]map[int]model.AddressRecord),
	}
}

func (s *MemoryStore) CreateJob(_ context.Context, job model.Job, records []model.AddressRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[int]model.AddressRecord, len(records))
	for _, record := range records {
		byID[record.ID] = record
	}
	s.jobs[job.ID] = job
	s.records[job.ID] = byID
	return nil
}

func (s *MemoryStore) GetJob(_ context.Context, id uuid.UUID) (*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &job, nil
}

func (s *MemoryStore) UpdateJob(_ context.Context, job model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[job.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.jobs[job.ID] = job
	return nil
}

func (s *MemoryStore) UpdateRecord(_ context.Context, jobID uuid.UUID, record model.AddressRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.records[jobID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if _, ok := byID[record.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	byID[record.ID] = record
	return nil
}

func (s *MemoryStore) ListRecords(_ context.Context, jobID uuid.UUID) ([]model.AddressRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID, ok := s.records[jobID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	records := make([]model.AddressRecord, 0, len(byID))
	for _, record := range byID {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}
