package util

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetTimeProvider() {
	mu.Lock()
	globalTimeProvider = nil
	mu.Unlock()
}

func TestInitializeTimeProvider(t *testing.T) {
	resetTimeProvider()
	t.Cleanup(resetTimeProvider)

	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "local timezone", timezone: "Local"},
		{name: "UTC timezone", timezone: "UTC"},
		{name: "valid timezone Europe/London", timezone: "Europe/London"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
		{name: "empty timezone defaults to Local", timezone: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitializeTimeProvider(tt.timezone)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid timezone")
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, GetTimeProvider())
		})
	}
}

func TestGetTimeProviderDefaultsToLocal(t *testing.T) {
	resetTimeProvider()
	t.Cleanup(resetTimeProvider)

	provider := GetTimeProvider()
	require.NotNil(t, provider)
	assert.Same(t, provider, GetTimeProvider())
	assert.Equal(t, time.Local, provider.Location())
}

func TestTimeProviderMillis(t *testing.T) {
	resetTimeProvider()
	t.Cleanup(resetTimeProvider)
	require.NoError(t, InitializeTimeProvider("UTC"))

	fixed := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	tp := GetTimeProvider()
	tp.SetClock(func() time.Time { return fixed })

	assert.Equal(t, fixed.UnixMilli(), tp.NowMillis())
	assert.True(t, tp.FromMillis(fixed.UnixMilli()).Equal(fixed))
	assert.Equal(t, "2024-03-01 12:30", tp.FormatMillis(fixed.UnixMilli(), "2006-01-02 15:04"))
}

func TestTimeProviderConcurrentAccess(t *testing.T) {
	resetTimeProvider()
	t.Cleanup(resetTimeProvider)
	require.NoError(t, InitializeTimeProvider("UTC"))
	tp := GetTimeProvider()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = tp.SetTimezone("UTC")
				return
			}
			_ = tp.Now()
		}(i)
	}
	wg.Wait()
}
