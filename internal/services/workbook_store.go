package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"hrpulse/internal/config"
	"hrpulse/internal/dataprocessing"
	"hrpulse/internal/infrastructure"
	"hrpulse/pkg/contracts/domain"
)

// WorkbookInfo describes a stored upload.
type WorkbookInfo struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	Sheets     []string  `json:"sheets"`
	UploadedAt time.Time `json:"uploaded_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type storedWorkbook struct {
	info       WorkbookInfo
	workbook   *domain.Workbook
	lastAccess time.Time
	prepared   map[string]*domain.Table
}

// WorkbookStore keeps parsed uploads in memory for a sliding TTL. Entries are
// evicted by a janitor goroutine, or least-recently-used first when the store
// is full. Scoped sheets are computed once per workbook and sheet.
type WorkbookStore struct {
	mu      sync.Mutex
	entries map[string]*storedWorkbook
	closed  bool

	ttl        time.Duration
	maxEntries int
	interval   time.Duration
	now        func() time.Time

	prepare singleflight.Group

	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger

	stop      chan struct{}
	done      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
}

// NewWorkbookStore creates an empty store. Call Start to run the janitor.
func NewWorkbookStore(cfg config.UploadConfig, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *WorkbookStore {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = config.DefaultUploadTTL
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = config.DefaultMaxUploads
	}
	if cfg.JanitorInterval <= 0 {
		cfg.JanitorInterval = config.DefaultJanitorInterval
	}

	return &WorkbookStore{
		entries:    make(map[string]*storedWorkbook),
		ttl:        cfg.TTL,
		maxEntries: cfg.MaxEntries,
		interval:   cfg.JanitorInterval,
		now:        time.Now,
		metrics:    metrics,
		logger:     logger.With(slog.String("component", "workbook_store")),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start launches the expiry janitor. It stops when ctx is done or Close is called.
func (s *WorkbookStore) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go s.janitor(ctx)
	})
}

func (s *WorkbookStore) janitor(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			if n := s.Sweep(ctx); n > 0 {
				s.logger.InfoContext(ctx, "expired workbooks evicted", slog.Int("count", n))
			}
		}
	}
}

// Close stops the janitor and drops every entry.
func (s *WorkbookStore) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)

		started := true
		s.startOnce.Do(func() { started = false })
		if started {
			<-s.done
		}

		s.mu.Lock()
		n := len(s.entries)
		s.entries = make(map[string]*storedWorkbook)
		s.closed = true
		s.mu.Unlock()

		infrastructure.RecordWorkbookStoreChange(context.Background(), s.metrics, -int64(n), false)
	})
}

// Put stores a parsed workbook and returns its info.
func (s *WorkbookStore) Put(ctx context.Context, filename string, size int64, wb *domain.Workbook) (WorkbookInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return WorkbookInfo{}, ErrStoreClosed
	}

	evicted := 0
	for len(s.entries) >= s.maxEntries {
		s.evictOldestLocked()
		evicted++
	}

	now := s.now()
	entry := &storedWorkbook{
		info: WorkbookInfo{
			ID:         uuid.New().String(),
			Filename:   filename,
			Size:       size,
			Sheets:     wb.SheetNames(),
			UploadedAt: now,
			ExpiresAt:  now.Add(s.ttl),
		},
		workbook:   wb,
		lastAccess: now,
		prepared:   make(map[string]*domain.Table),
	}
	s.entries[entry.info.ID] = entry

	if evicted > 0 {
		infrastructure.RecordWorkbookStoreChange(ctx, s.metrics, -int64(evicted), true)
		s.logger.InfoContext(ctx, "store full, evicted least recently used workbooks", slog.Int("count", evicted))
	}
	infrastructure.RecordWorkbookStoreChange(ctx, s.metrics, 1, false)

	return entry.info, nil
}

// Get returns a stored workbook and refreshes its expiry.
func (s *WorkbookStore) Get(id string) (WorkbookInfo, *domain.Workbook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.touchLocked(id)
	if err != nil {
		return WorkbookInfo{}, nil, err
	}
	return entry.info, entry.workbook, nil
}

// Delete removes a workbook.
func (s *WorkbookStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrWorkbookNotFound, id)
	}
	infrastructure.RecordWorkbookStoreChange(ctx, s.metrics, -1, false)
	return nil
}

// Len reports the number of stored workbooks.
func (s *WorkbookStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Closed reports whether Close has run.
func (s *WorkbookStore) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Prepared returns the normalized, scoped table of one sheet. Concurrent
// callers for the same sheet share a single computation.
func (s *WorkbookStore) Prepared(ctx context.Context, id, sheet string) (*domain.Table, error) {
	s.mu.Lock()
	entry, err := s.touchLocked(id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if t, ok := entry.prepared[sheet]; ok {
		s.mu.Unlock()
		return t, nil
	}
	wb := entry.workbook
	s.mu.Unlock()

	v, err, _ := s.prepare.Do(id+"\x00"+sheet, func() (interface{}, error) {
		s.mu.Lock()
		if e, ok := s.entries[id]; ok {
			if t, ok := e.prepared[sheet]; ok {
				s.mu.Unlock()
				return t, nil
			}
		}
		s.mu.Unlock()

		raw, err := dataprocessing.SelectSheet(wb, sheet)
		if err != nil {
			return nil, err
		}
		t := dataprocessing.ApplyScope(raw, dataprocessing.DefaultScope())

		s.mu.Lock()
		if e, ok := s.entries[id]; ok {
			e.prepared[sheet] = t
		}
		s.mu.Unlock()

		s.logger.DebugContext(ctx, "sheet prepared",
			slog.String("workbook_id", id),
			slog.String("sheet", sheet),
			slog.Int("rows", raw.Len()),
			slog.Int("scoped_rows", t.Len()))
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Table), nil
}

// Sweep evicts expired workbooks and returns how many were removed.
func (s *WorkbookStore) Sweep(ctx context.Context) int {
	s.mu.Lock()
	now := s.now()
	n := 0
	for id, e := range s.entries {
		if !now.Before(e.info.ExpiresAt) {
			delete(s.entries, id)
			n++
		}
	}
	s.mu.Unlock()

	if n > 0 {
		infrastructure.RecordWorkbookStoreChange(ctx, s.metrics, -int64(n), true)
	}
	return n
}

// touchLocked finds a live entry and slides its expiry. Caller holds s.mu.
func (s *WorkbookStore) touchLocked(id string) (*storedWorkbook, error) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorkbookNotFound, id)
	}
	now := s.now()
	if !now.Before(entry.info.ExpiresAt) {
		delete(s.entries, id)
		infrastructure.RecordWorkbookStoreChange(context.Background(), s.metrics, -1, true)
		return nil, fmt.Errorf("%w: %s", ErrWorkbookNotFound, id)
	}
	entry.lastAccess = now
	entry.info.ExpiresAt = now.Add(s.ttl)
	return entry, nil
}

// evictOldestLocked drops the least recently used entry. Caller holds s.mu.
func (s *WorkbookStore) evictOldestLocked() {
	var oldest string
	for id, e := range s.entries {
		if oldest == "" || e.lastAccess.Before(s.entries[oldest].lastAccess) {
			oldest = id
		}
	}
	delete(s.entries, oldest)
}
