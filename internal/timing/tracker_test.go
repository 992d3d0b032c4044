package timing

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerAccumulates(t *testing.T) {
	tt := NewTracker()
	tt.Record("detect", 2*time.Millisecond)
	tt.Record("detect", 4*time.Millisecond)
	tt.Record("load", time.Millisecond)

	summary := tt.Summary()
	require.Len(t, summary, 2)
	assert.Equal(t, Stat{Operation: "detect", Count: 2, Total: 6 * time.Millisecond}, summary[0])
	assert.Equal(t, 3*time.Millisecond, summary[0].Mean())
	assert.Equal(t, "load", summary[1].Operation)
	assert.Zero(t, Stat{}.Mean())

	tt.Reset()
	assert.Empty(t, tt.Summary())
}

func TestStartIsSafeForConcurrentUse(t *testing.T) {
	tt := NewTracker()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stop := tt.Start("noise")
			stop()
		}()
	}
	wg.Wait()

	summary := tt.Summary()
	require.Len(t, summary, 1)
	assert.Equal(t, 8, summary[0].Count)
}
