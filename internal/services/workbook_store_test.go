package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"hrpulse/internal/config"
	"hrpulse/internal/dataprocessing"
	"hrpulse/pkg/contracts/domain"
)

// fakeClock is a settable time source for the store.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(t *testing.T, cfg config.UploadConfig) (*WorkbookStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	s := NewWorkbookStore(cfg, nil, testLogger())
	s.now = clock.Now
	t.Cleanup(s.Close)
	return s, clock
}

func sampleWorkbook() *domain.Workbook {
	wb := domain.NewWorkbook()
	wb.AddSheet("S", domain.NewTable(
		[]string{domain.ColumnDepartment, domain.ColumnJobTitle},
		[]domain.Row{
			{domain.String("D1"), domain.String("مهندس")},
			{domain.String("HC.نادي عجمان للفروسية"), domain.String("مدير")},
		}))
	return wb
}

func TestWorkbookStore_PutGet(t *testing.T) {
	s, clock := newTestStore(t, testUploadConfig())
	ctx := context.Background()

	info, err := s.Put(ctx, "staff.xlsx", 1234, sampleWorkbook())
	require.NoError(t, err)

	assert.NotEmpty(t, info.ID)
	assert.Equal(t, "staff.xlsx", info.Filename)
	assert.Equal(t, int64(1234), info.Size)
	assert.Equal(t, []string{"S"}, info.Sheets)
	assert.Equal(t, clock.Now(), info.UploadedAt)
	assert.Equal(t, clock.Now().Add(config.DefaultUploadTTL), info.ExpiresAt)
	assert.Equal(t, 1, s.Len())

	got, wb, err := s.Get(info.ID)
	require.NoError(t, err)
	assert.Equal(t, info.ID, got.ID)
	require.NotNil(t, wb)

	_, _, err = s.Get("nope")
	assert.ErrorIs(t, err, ErrWorkbookNotFound)
}

func TestWorkbookStore_SlidingExpiry(t *testing.T) {
	cfg := testUploadConfig()
	cfg.TTL = 30 * time.Minute
	s, clock := newTestStore(t, cfg)

	info, err := s.Put(context.Background(), "a.xlsx", 1, sampleWorkbook())
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)
	got, _, err := s.Get(info.ID)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(30*time.Minute), got.ExpiresAt)

	// still alive 40 minutes after upload because the read slid the window
	clock.Advance(20 * time.Minute)
	_, _, err = s.Get(info.ID)
	require.NoError(t, err)

	clock.Advance(30 * time.Minute)
	_, _, err = s.Get(info.ID)
	assert.ErrorIs(t, err, ErrWorkbookNotFound)
	assert.Zero(t, s.Len())
}

func TestWorkbookStore_Sweep(t *testing.T) {
	cfg := testUploadConfig()
	cfg.TTL = time.Minute
	s, clock := newTestStore(t, cfg)
	ctx := context.Background()

	_, err := s.Put(ctx, "old.xlsx", 1, sampleWorkbook())
	require.NoError(t, err)
	clock.Advance(45 * time.Second)
	fresh, err := s.Put(ctx, "new.xlsx", 1, sampleWorkbook())
	require.NoError(t, err)

	assert.Zero(t, s.Sweep(ctx))

	clock.Advance(30 * time.Second)
	assert.Equal(t, 1, s.Sweep(ctx))
	assert.Equal(t, 1, s.Len())

	_, _, err = s.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestWorkbookStore_EvictsLeastRecentlyUsed(t *testing.T) {
	cfg := testUploadConfig()
	cfg.MaxEntries = 2
	s, clock := newTestStore(t, cfg)
	ctx := context.Background()

	a, err := s.Put(ctx, "a.xlsx", 1, sampleWorkbook())
	require.NoError(t, err)
	clock.Advance(time.Second)
	b, err := s.Put(ctx, "b.xlsx", 1, sampleWorkbook())
	require.NoError(t, err)
	clock.Advance(time.Second)

	_, _, err = s.Get(a.ID)
	require.NoError(t, err)
	clock.Advance(time.Second)

	c, err := s.Put(ctx, "c.xlsx", 1, sampleWorkbook())
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	_, _, err = s.Get(b.ID)
	assert.ErrorIs(t, err, ErrWorkbookNotFound)
	for _, id := range []string{a.ID, c.ID} {
		_, _, err = s.Get(id)
		assert.NoError(t, err)
	}
}

func TestWorkbookStore_Delete(t *testing.T) {
	s, _ := newTestStore(t, testUploadConfig())
	ctx := context.Background()

	info, err := s.Put(ctx, "a.xlsx", 1, sampleWorkbook())
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, info.ID))
	assert.ErrorIs(t, s.Delete(ctx, info.ID), ErrWorkbookNotFound)
	assert.Zero(t, s.Len())
}

func TestWorkbookStore_Prepared(t *testing.T) {
	s, _ := newTestStore(t, testUploadConfig())
	ctx := context.Background()

	info, err := s.Put(ctx, "a.xlsx", 1, sampleWorkbook())
	require.NoError(t, err)

	var g errgroup.Group
	tables := make([]*domain.Table, 8)
	for i := range tables {
		g.Go(func() error {
			tbl, err := s.Prepared(ctx, info.ID, "S")
			tables[i] = tbl
			return err
		})
	}
	require.NoError(t, g.Wait())

	require.NotNil(t, tables[0])
	assert.Equal(t, 1, tables[0].Len(), "excluded unit is out of scope")

	again, err := s.Prepared(ctx, info.ID, "S")
	require.NoError(t, err)
	for _, tbl := range tables {
		assert.Same(t, again, tbl)
	}

	_, err = s.Prepared(ctx, info.ID, "missing")
	assert.ErrorIs(t, err, dataprocessing.ErrSheetNotFound)

	_, err = s.Prepared(ctx, "nope", "S")
	assert.ErrorIs(t, err, ErrWorkbookNotFound)
}

func TestWorkbookStore_JanitorAndClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := testUploadConfig()
	cfg.TTL = 10 * time.Millisecond
	cfg.JanitorInterval = 5 * time.Millisecond
	s := NewWorkbookStore(cfg, nil, testLogger())

	s.Start(context.Background())
	_, err := s.Put(context.Background(), "a.xlsx", 1, sampleWorkbook())
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)

	s.Close()
	s.Close()
	assert.True(t, s.Closed())

	_, err = s.Put(context.Background(), "b.xlsx", 1, sampleWorkbook())
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestWorkbookStore_StopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewWorkbookStore(testUploadConfig(), nil, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()
	s.Close()
}

func TestWorkbookStore_CloseWithoutStart(t *testing.T) {
	s := NewWorkbookStore(config.UploadConfig{}, nil, nil)
	s.Close()
	assert.True(t, s.Closed())
}
