package testbed_test

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/testbed"
)

func TestHitLog_Hit(t *testing.T) {
	var buf bytes.Buffer
	fixed := time.Date(2024, 3, 9, 14, 5, 7, 123456000, time.Local)
	log := testbed.NewHitLog(&buf, func() time.Time { return fixed })

	require.NoError(t, log.Hit("/test endpoint hit!"))

	assert.Equal(t, "2024-03-09 14:05:07.123456 - /test endpoint hit!\n", buf.String())
}

func TestHitLog_OneLinePerCall(t *testing.T) {
	var buf bytes.Buffer
	log := testbed.NewHitLog(&buf, nil)

	for i := 0; i < 3; i++ {
		require.NoError(t, log.Hit("HTTP Client: 192.0.2.1"))
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		parts := strings.SplitN(line, " - ", 2)
		require.Len(t, parts, 2)
		_, err := time.ParseInLocation(testbed.HitLogTimeFormat, parts[0], time.Local)
		assert.NoError(t, err)
		assert.Equal(t, "HTTP Client: 192.0.2.1", parts[1])
	}
}

func TestHitLog_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	log := testbed.NewHitLog(&buf, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = log.Hit("hit")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, strings.Count(buf.String(), " - hit\n"))
}
