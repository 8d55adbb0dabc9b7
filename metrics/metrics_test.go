package metrics

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/handlepool"
)

func TestNewRecorderValidation(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		pool      string
		wantErr   bool
	}{
		{"valid", "app", "sessions", false},
		{"empty namespace", "", "sessions", false},
		{"bad namespace", "1app", "sessions", true},
		{"empty pool name", "app", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecorder(tt.namespace, tt.pool, nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidName))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRecorderRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewRecorder("app", "entities", reg)
	require.NoError(t, err)

	p := handlepool.New[int]()
	hs := []handlepool.Handle[int]{p.Insert(1), p.Insert(2), p.Insert(3)}
	p.Free(hs[0])
	rec.Record(p.Metrics())

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.active))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.free))
	assert.Equal(t, 3.0, testutil.ToFloat64(rec.slots))
	assert.Equal(t, 3.0, testutil.ToFloat64(rec.allocations))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.frees))
	assert.Zero(t, testutil.ToFloat64(rec.reuses))

	p.Insert(4)
	p.Free(hs[1])
	p.Recycle()
	rec.Record(p.Metrics())

	assert.Equal(t, 3.0, testutil.ToFloat64(rec.active))
	assert.Equal(t, 3.0, testutil.ToFloat64(rec.allocations))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.reuses))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.frees))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.utilization))

	// Re-recording an unchanged snapshot does not move counters.
	rec.Record(p.Metrics())
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.reuses))
}

func TestRecorderExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewRecorder("app", "entities", reg)
	require.NoError(t, err)

	p := handlepool.New[string]()
	p.Insert("a")
	rec.Record(p.Metrics())

	expected := `
# HELP app_handlepool_active_slots Slots holding a live value
# TYPE app_handlepool_active_slots gauge
app_handlepool_active_slots{pool="entities"} 1
`
	err = testutil.GatherAndCompare(reg, strings.NewReader(expected), "app_handlepool_active_slots")
	assert.NoError(t, err)
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRecorder("app", "entities", reg)
	require.NoError(t, err)

	assert.Panics(t, func() {
		_, _ = NewRecorder("app", "entities", reg)
	})
}
