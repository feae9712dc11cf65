package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/conon21154/lineguide/internal/contact"
	"github.com/conon21154/lineguide/internal/excel"
	"github.com/conon21154/lineguide/internal/model"
)

// JobStore persists jobs and their records. Lookups of unknown jobs return
// gorm.ErrRecordNotFound.
type JobStore interface {
	CreateJob(ctx context.Context, job model.Job, records []model.AddressRecord) error
	GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error)
	UpdateJob(ctx context.Context, job model.Job) error
	UpdateRecord(ctx context.Context, jobID uuid.UUID, record model.AddressRecord) error
	ListRecords(ctx context.Context, jobID uuid.UUID) ([]model.AddressRecord, error)
}

type ExcelGenerator interface {
	GenerateJob(job model.Job, records []model.AddressRecord) ([]byte, error)
	GenerateOutage(mappings []model.OutageMapping) ([]byte, error)
}

type PDFGenerator interface {
	GenerateJob(job model.Job, records []model.AddressRecord) ([]byte, error)
}

type ExportResult struct {
	FileName string
	Content  []byte
}

const subscriberBuffer = 16

type activeJob struct {
	job       model.Job
	canceled  bool
	listeners []chan model.JobProgress
}

// MappingService runs address batches through a contact resolver. Jobs run
// one at a time in submission order on a single worker, so a provider client
// is never driven by two batches at once.
type MappingService struct {
	store    JobStore
	resolver contact.Resolver
	excel    ExcelGenerator
	pdf      PDFGenerator
	log      zerolog.Logger

	mu      sync.Mutex
	active  map[uuid.UUID]*activeJob
	pending []uuid.UUID
	wake    chan struct{}
	now     func() time.Time
}

// NewMappingService wires the service. pdf may be nil, in which case PDF
// export reports ErrExportUnavailable.
func NewMappingService(store JobStore, resolver contact.Resolver, excel ExcelGenerator, pdf PDFGenerator, log zerolog.Logger) *MappingService {
	return &MappingService{
		store:    store,
		resolver: resolver,
		excel:    excel,
		pdf:      pdf,
		log:      log.With().Str("component", "mapping_service").Logger(),
		active:   make(map[uuid.UUID]*activeJob),
		wake:     make(chan struct{}, 1),
		now:      time.Now,
	}
}

// Start launches the worker. It stops when ctx is done; a job running at
// that moment ends canceled at the next record boundary.
func (s *MappingService) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *MappingService) Submit(ctx context.Context, records []model.AddressRecord, dropped int) (*model.Job, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no usable address rows", ErrInvalidInput)
	}

	job := model.Job{
		ID:        uuid.New(),
		Status:    model.JobStatusQueued,
		Total:     len(records),
		Dropped:   dropped,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateJob(ctx, job, records); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.mu.Lock()
	s.active[job.ID] = &activeJob{job: job}
	s.pending = append(s.pending, job.ID)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}

	s.log.Info().Str("job_id", job.ID.String()).Int("records", job.Total).Int("dropped", dropped).Msg("job queued")
	return &job, nil
}

// SubmitTable ingests an uploaded spreadsheet and queues its rows.
func (s *MappingService) SubmitTable(ctx context.Context, filename string, r io.Reader) (*model.Job, error) {
	rows, err := excel.ReadTable(filename, r)
	if err != nil {
		if errors.Is(err, excel.ErrUnsupportedFormat) || errors.Is(err, excel.ErrEmptyTable) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}
	records, dropped := excel.ParseAddressRows(rows)
	s.logDropped(filename, dropped)
	return s.Submit(ctx, records, len(dropped))
}

// SubmitRows queues already split address rows.
func (s *MappingService) SubmitRows(ctx context.Context, rows []model.AddressRow) (*model.Job, error) {
	records, dropped := excel.BuildRecords(rows)
	s.logDropped("rows", dropped)
	return s.Submit(ctx, records, len(dropped))
}

func (s *MappingService) logDropped(source string, dropped []int) {
	if len(dropped) == 0 {
		return
	}
	s.log.Warn().Str("source", source).Ints("rows", dropped).Msg("dropped rows without city, district or neighborhood")
}

func (s *MappingService) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	s.mu.Lock()
	if a, ok := s.active[id]; ok {
		job := a.job
		s.mu.Unlock()
		return &job, nil
	}
	s.mu.Unlock()

	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

func (s *MappingService) Records(ctx context.Context, id uuid.UUID) ([]model.AddressRecord, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListRecords(ctx, id)
}

// Subscribe streams progress updates until the job ends, then closes the
// channel. Slow readers may miss intermediate updates. The returned func
// detaches the subscriber early.
func (s *MappingService) Subscribe(ctx context.Context, id uuid.UUID) (<-chan model.JobProgress, func(), error) {
	s.mu.Lock()
	if a, ok := s.active[id]; ok {
		ch := make(chan model.JobProgress, subscriberBuffer)
		ch <- a.job.Progress()
		a.listeners = append(a.listeners, ch)
		s.mu.Unlock()
		return ch, func() { s.unsubscribe(id, ch) }, nil
	}
	s.mu.Unlock()

	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	ch := make(chan model.JobProgress, 1)
	ch <- job.Progress()
	close(ch)
	return ch, func() {}, nil
}

func (s *MappingService) unsubscribe(id uuid.UUID, ch chan model.JobProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.active[id]
	if !ok {
		return
	}
	for i, listener := range a.listeners {
		if listener == ch {
			a.listeners = append(a.listeners[:i], a.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// Cancel requests cancellation. It takes effect before the next record;
// the record being resolved still completes.
func (s *MappingService) Cancel(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	s.mu.Lock()
	if a, ok := s.active[id]; ok {
		a.canceled = true
		job := a.job
		s.mu.Unlock()
		s.log.Info().Str("job_id", id.String()).Msg("job cancel requested")
		return &job, nil
	}
	s.mu.Unlock()

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrJobFinished
}

// ResolveOne resolves a single address synchronously.
func (s *MappingService) ResolveOne(ctx context.Context, address string) (model.ContactResult, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return model.ContactResult{}, fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	result, err := s.resolver.Resolve(ctx, address)
	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			return model.ContactResult{}, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return model.ContactResult{}, err
	}
	return result, nil
}

func (s *MappingService) ExportExcel(ctx context.Context, id uuid.UUID) (*ExportResult, error) {
	job, records, err := s.snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.GenerateJob(*job, records)
	if err != nil {
		return nil, err
	}
	return &ExportResult{FileName: exportName(job.ID, "xlsx"), Content: content}, nil
}

func (s *MappingService) ExportPDF(ctx context.Context, id uuid.UUID) (*ExportResult, error) {
	if s.pdf == nil {
		return nil, fmt.Errorf("%w: no pdf font configured", ErrExportUnavailable)
	}
	job, records, err := s.snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.GenerateJob(*job, records)
	if err != nil {
		return nil, err
	}
	return &ExportResult{FileName: exportName(job.ID, "pdf"), Content: content}, nil
}

func (s *MappingService) snapshot(ctx context.Context, id uuid.UUID) (*model.Job, []model.AddressRecord, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.store.ListRecords(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return job, records, nil
}

func exportName(id uuid.UUID, ext string) string {
	return fmt.Sprintf("contact_results_%s.%s", id.String()[:8], ext)
}

func (s *MappingService) run(ctx context.Context) {
	for {
		id, ok := s.next()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-s.wake:
				continue
			}
		}
		s.runJob(ctx, id)
	}
}

func (s *MappingService) next() (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return uuid.Nil, false
	}
	id := s.pending[0]
	s.pending = s.pending[1:]
	return id, true
}

func (s *MappingService) runJob(ctx context.Context, id uuid.UUID) {
	logger := s.log.With().Str("job_id", id.String()).Logger()
	storeCtx := context.WithoutCancel(ctx)

	status := model.JobStatusCompleted
	records, err := s.store.ListRecords(storeCtx, id)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load job records")
		status = model.JobStatusFailed
		records = nil
	}

	started := s.now().UTC()
	job := s.update(id, func(job *model.Job) {
		job.Status = model.JobStatusRunning
		job.StartedAt = &started
	})
	s.persistJob(storeCtx, job, logger)
	logger.Info().Int("records", len(records)).Msg("job started")

	for i := range records {
		if s.canceled(id) || ctx.Err() != nil {
			status = model.JobStatusCanceled
			break
		}

		record := &records[i]
		result, err := s.resolver.Resolve(storeCtx, record.FullAddress)
		succeeded := err == nil
		if succeeded {
			record.ApplyContact(result)
		} else {
			record.ApplyError(err)
		}

		if err := s.store.UpdateRecord(storeCtx, id, *record); err != nil {
			logger.Error().Err(err).Int("record_id", record.ID).Msg("failed to save record")
		}
		job = s.update(id, func(job *model.Job) {
			job.Processed++
			if succeeded {
				job.Succeeded++
			} else {
				job.Failed++
			}
		})
		s.persistJob(storeCtx, job, logger)
	}

	finished := s.now().UTC()
	job = s.update(id, func(job *model.Job) {
		job.Status = status
		job.FinishedAt = &finished
	})
	s.persistJob(storeCtx, job, logger)
	s.release(id)
	logger.Info().
		Str("status", string(job.Status)).
		Int("succeeded", job.Succeeded).
		Int("failed", job.Failed).
		Msg("job finished")
}

func (s *MappingService) canceled(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.active[id]
	return ok && a.canceled
}

// update mutates the in-memory job and publishes the new progress.
func (s *MappingService) update(id uuid.UUID, mutate func(job *model.Job)) model.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.active[id]
	mutate(&a.job)
	progress := a.job.Progress()
	for _, listener := range a.listeners {
		select {
		case listener <- progress:
		default:
		}
	}
	return a.job
}

// release closes every subscriber and hands the job over to the store.
func (s *MappingService) release(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, listener := range s.active[id].listeners {
		close(listener)
	}
	delete(s.active, id)
}

func (s *MappingService) persistJob(ctx context.Context, job model.Job, logger zerolog.Logger) {
	if err := s.store.UpdateJob(ctx, job); err != nil {
		logger.Error().Err(err).Msg("failed to save job progress")
	}
}
