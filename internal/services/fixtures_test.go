package services

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"hrpulse/internal/config"
	"hrpulse/internal/infrastructure"
	"hrpulse/internal/shared/testutil"
	"hrpulse/pkg/contracts/domain"
)

const (
	staffSheet   = "الموظفون"
	partialSheet = "ناقص"
)

// staffWorkbook is six employees, two of them in out-of-scope units, plus a
// sheet that only carries department and gender.
func staffWorkbook(t *testing.T) []byte {
	return testutil.WorkbookBytes(t,
		testutil.StaffSheet(staffSheet,
			[]interface{}{"D1", "مهندس", "A", "ذكر", "دائم", "بكالوريوس", "جيد"},
			[]interface{}{"D1", "مهندس", "A", "أنثى", "دائم", "ماجستير", " - "},
			[]interface{}{"D1", "محاسب", "B", "ذكر", "مؤقت", "ثانوي", nil},
			[]interface{}{"D2", "سائق", "A", "ذكر", "مؤقت", "ثانوي", "مقبول"},
			[]interface{}{"AM.دائرة البلدية والتخطيط", "عامل", "C", "ذكر", "دائم", "ثانوي", nil},
			[]interface{}{"RC.الديوان الأميري", "مستشار", "A", "ذكر", "دائم", "دكتوراه", nil},
		),
		testutil.Sheet{Name: partialSheet, Rows: [][]interface{}{
			{domain.ColumnDepartment, domain.ColumnGender},
			{"D1", "ذكر"},
			{"D2", nil},
		}},
	)
}

func testLogger() *slog.Logger {
	return infrastructure.NewLogger(io.Discard, "error")
}

func testMetrics(t *testing.T) *infrastructure.BusinessMetrics {
	t.Helper()
	m, err := infrastructure.CreateBusinessMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	return m
}

func testUploadConfig() config.UploadConfig {
	return config.UploadConfig{
		MaxSizeBytes:    config.DefaultMaxUploadBytes,
		TTL:             config.DefaultUploadTTL,
		MaxEntries:      config.DefaultMaxUploads,
		JanitorInterval: config.DefaultJanitorInterval,
	}
}
