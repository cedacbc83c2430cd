package ipc

import (
	"bufio"
	"net"
	"net/textproto"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/scribble-lang/scribble/internal/errs"
	"github.com/scribble-lang/scribble/internal/log"
)

// Conn wraps one accepted or dialed UNIX socket connection with the
// buffered reader/writer the framing in message.go needs.
type Conn struct {
	raw *net.UnixConn
	r   *textproto.Reader
	w   *bufio.Writer
}

func newConn(c *net.UnixConn) *Conn {
	return &Conn{raw: c, r: textproto.NewReader(bufio.NewReader(c)), w: bufio.NewWriter(c)}
}

func (c *Conn) Close() error { return c.raw.Close() }

func (c *Conn) WriteRequest(req Request) error    { return WriteRequest(c.w, req) }
func (c *Conn) ReadRequest() (Request, error)     { return ReadRequest(c.r) }
func (c *Conn) WriteResponse(resp Response) error { return WriteResponse(c.w, resp) }
func (c *Conn) ReadResponse() (Response, error)   { return ReadResponse(c.r) }

// Listener is the frontend side: it owns the socket file and accepts
// exactly one worker connection per compile (§4.4: "the frontend is the
// listener and the worker connects once per compile").
type Listener struct {
	path string
	ln   *net.UnixListener
}

// Listen creates a UNIX-domain socket named uniquely under dir (the
// uuid-suffixed naming grounded on the teacher's
// `java-parser-<uuid8>.sock` convention).
func Listen(dir string) (*Listener, error) {
	name := "scribble-" + uuid.New().String()[:8] + ".sock"
	path := filepath.Join(dir, name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, errs.NewIOError("remove stale socket %s: %v", path, err)
	}
	addr := &net.UnixAddr{Name: path, Net: "unix"}
	ln, err := net.ListenUnix("unix", addr)
	if err != nil {
		return nil, errs.NewProcessError("listen on %s: %v", path, err)
	}
	log.Debug("ipc: listening on %s", path)
	return &Listener{path: path, ln: ln}, nil
}

// Path returns the socket path, e.g. to pass to the worker subprocess via
// argv or an environment variable.
func (l *Listener) Path() string { return l.path }

// Accept blocks for the worker's single connection.
func (l *Listener) Accept() (*Conn, error) {
	conn, err := l.ln.AcceptUnix()
	if err != nil {
		return nil, errs.NewProcessError("accept on %s: %v", l.path, err)
	}
	return newConn(conn), nil
}

// Close closes the listener and removes the socket file.
func (l *Listener) Close() error {
	err := l.ln.Close()
	os.Remove(l.path)
	return err
}

// Dial connects to a frontend's socket from the worker side.
func Dial(path string) (*Conn, error) {
	addr := &net.UnixAddr{Name: path, Net: "unix"}
	conn, err := net.DialUnix("unix", nil, addr)
	if err != nil {
		return nil, errs.NewProcessError("dial %s: %v", path, err)
	}
	return newConn(conn), nil
}
