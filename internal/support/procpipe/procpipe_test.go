package procpipe

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartWritesStdinAndCollectsStdout(t *testing.T) {
	p, err := Start(context.Background(), "/bin/cat", nil)
	require.NoError(t, err)

	require.NoError(t, p.Write([]byte("hello\n")))
	require.NoError(t, p.CloseStdin())

	code, err := p.Wait()
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	out, open := p.Stdout.ReadExpect()
	assert.Equal(t, "hello\n", string(out))
	assert.False(t, open, "once Wait has joined the drain goroutines, ReadExpect reports the pipe closed")
	assert.True(t, p.Stdout.Closed())
}

func TestWaitReportsNonZeroExitCode(t *testing.T) {
	p, err := Start(context.Background(), "/bin/sh", []string{"-c", "exit 3"})
	require.NoError(t, err)
	code, err := p.Wait()
	require.NoError(t, err)
	assert.Equal(t, 3, code)
}

// TestKillYieldsExactlyLinesEmittedSoFarThenEOF is Scenario F: a child
// printing one line per second, killed after two seconds, yields exactly
// the lines emitted so far followed by a clean EOF, and the drain
// goroutine exits without any further wake-up.
func TestKillYieldsExactlyLinesEmittedSoFarThenEOF(t *testing.T) {
	script := `i=0; while true; do i=$((i+1)); echo "line$i"; sleep 1; done`
	p, err := Start(context.Background(), "/bin/sh", []string{"-c", script})
	require.NoError(t, err)

	time.Sleep(2500 * time.Millisecond)
	require.NoError(t, p.Kill())

	code, err := p.Wait()
	require.NoError(t, err)
	assert.NotEqual(t, 0, code, "a killed process does not exit 0")

	assert.True(t, p.Stdout.Closed())
	lines := strings.Split(strings.TrimRight(string(p.Stdout.Bytes()), "\n"), "\n")
	assert.GreaterOrEqual(t, len(lines), 2)
	assert.LessOrEqual(t, len(lines), 3)
	for i, line := range lines {
		assert.Equal(t, "line"+itoa(i+1), line)
	}

	// Wait already joined the drain goroutines (p.wg.Wait()); a further
	// ReadCurrent must be empty, proving no more wake-ups occur.
	assert.Empty(t, p.Stdout.ReadCurrent())
}

func TestOnReadCallbackSeesEachChunk(t *testing.T) {
	p, err := Start(context.Background(), "/bin/sh", []string{"-c", "sleep 0.2; echo a; echo b"})
	require.NoError(t, err)

	var mu sync.Mutex
	var seen []byte
	p.Stdout.OnRead(func(chunk []byte) {
		mu.Lock()
		seen = append(seen, chunk...)
		mu.Unlock()
	})

	_, err = p.Wait()
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "a\nb\n", string(seen))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
