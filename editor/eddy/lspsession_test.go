package eddy

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader/fakeWriteCloser stand in for a spawned server's stdout/stdin
// pipes, which is all pipeRWC actually needs to join into one
// io.ReadWriteCloser.
type fakeReader struct {
	r io.Reader
}

func (f fakeReader) Read(b []byte) (int, error) { return f.r.Read(b) }

type fakeWriteCloser struct {
	w      io.Writer
	closed bool
}

func (f *fakeWriteCloser) Write(b []byte) (int, error) { return f.w.Write(b) }
func (f *fakeWriteCloser) Close() error {
	f.closed = true
	return nil
}

func TestPipeRWCJoinsReadAndWrite(t *testing.T) {
	pr, pw := io.Pipe()
	go func() {
		pw.Write([]byte("hello"))
		pw.Close()
	}()

	var writeBuf []byte
	wc := &fakeWriteCloser{w: sliceWriter{&writeBuf}}
	p := pipeRWC{r: fakeReader{pr}, w: wc}

	buf := make([]byte, 5)
	n, err := p.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))

	_, err = p.Write([]byte("world"))
	require.NoError(t, err)
	assert.Equal(t, "world", string(writeBuf))

	require.NoError(t, p.Close())
	assert.True(t, wc.closed)
}

type sliceWriter struct{ buf *[]byte }

func (s sliceWriter) Write(b []byte) (int, error) {
	*s.buf = append(*s.buf, b...)
	return len(b), nil
}
