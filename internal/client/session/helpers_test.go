package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func waitCalls(t *testing.T, src *fakeSource, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return src.calls >= n
	}, timeout, tick)
}
