package ipc

import (
	"github.com/scribble-lang/scribble/internal/errs"
	"github.com/scribble-lang/scribble/internal/log"
	"github.com/scribble-lang/scribble/internal/support/jsonutil"
)

// StageEvent is what the frontend surfaces to its caller (the CLI driver,
// or a progress UI) as it observes a worker's stage transitions.
type StageEvent struct {
	Stage string
	Done  bool // false = stage started, true = stage finished
}

// Frontend drives the listener side of the §4.4 handshake for exactly one
// worker connection: HELLO, bootstrap config, then a loop relaying
// stage start/done/errors/panic messages until goodbye or disconnection.
type Frontend struct {
	ln     *Listener
	conn   *Conn
	Config BootstrapConfig
}

// NewFrontend creates a listening socket and returns a Frontend ready to
// Accept a worker.
func NewFrontend(socketDir string, cfg BootstrapConfig) (*Frontend, error) {
	ln, err := Listen(socketDir)
	if err != nil {
		return nil, err
	}
	return &Frontend{ln: ln, Config: cfg}, nil
}

func (f *Frontend) SocketPath() string { return f.ln.Path() }

func (f *Frontend) Close() error { return f.ln.Close() }

// Serve accepts the worker's connection, completes the hello/bootstrap
// handshake, and then relays stage events and errors to onEvent/onError
// until the worker says goodbye, panics, or disconnects (the dropped-
// socket cancellation case of §4.4).
func (f *Frontend) Serve(onEvent func(StageEvent), onError func(stage string, payload ErrorPayload)) error {
	conn, err := f.ln.Accept()
	if err != nil {
		return err
	}
	f.conn = conn
	defer conn.Close()

	if err := f.handshake(); err != nil {
		return err
	}

	for {
		req, err := conn.ReadRequest()
		if err != nil {
			// A dropped socket mid-compile is cancellation, not a fatal
			// transport error (§4.4 "Cancellation").
			log.Debug("ipc: frontend read ended: %v", err)
			return nil
		}
		switch {
		case req.Path == "/goodbye":
			conn.WriteResponse(Response{Status: "200 OK"})
			return nil
		case req.Path == "/panic":
			var p PanicPayload
			jsonutil.Unmarshal(req.Body, &p)
			conn.WriteResponse(Response{Status: "200 OK"})
			return errs.NewProcessError("worker panicked: %s", p.Message)
		case hasSuffix(req.Path, "/start"):
			conn.WriteResponse(Response{Status: "200 OK"})
			if onEvent != nil {
				onEvent(StageEvent{Stage: stageName(req.Path, "/start"), Done: false})
			}
		case hasSuffix(req.Path, "/done"):
			conn.WriteResponse(Response{Status: "200 OK"})
			if onEvent != nil {
				onEvent(StageEvent{Stage: stageName(req.Path, "/done"), Done: true})
			}
		case hasSuffix(req.Path, "/errors"):
			var payload ErrorPayload
			jsonutil.Unmarshal(req.Body, &payload)
			conn.WriteResponse(Response{Status: "200 OK"})
			if onError != nil {
				onError(stageName(req.Path, "/errors"), payload)
			}
		default:
			conn.WriteResponse(Response{Status: "404 Not Found"})
		}
	}
}

func (f *Frontend) handshake() error {
	hello, err := f.conn.ReadRequest()
	if err != nil {
		return errs.NewHTTPError("awaiting hello: %v", err)
	}
	if hello.Path != "/hello" {
		return errs.NewHTTPError("expected GET /hello, got %s %s", hello.Method, hello.Path)
	}
	if err := f.conn.WriteResponse(Response{Status: "200 HELLO"}); err != nil {
		return err
	}

	bootstrap, err := f.conn.ReadRequest()
	if err != nil {
		return errs.NewHTTPError("awaiting bootstrap request: %v", err)
	}
	if bootstrap.Path != "/bootstrap/config" {
		return errs.NewHTTPError("expected GET /bootstrap/config, got %s", bootstrap.Path)
	}
	body, err := jsonutil.Marshal(f.Config)
	if err != nil {
		return err
	}
	return f.conn.WriteResponse(Response{Status: "200 OK", Body: body})
}

func hasSuffix(path, suffix string) bool {
	return len(path) >= len(suffix) && path[len(path)-len(suffix):] == suffix
}

func stageName(path, suffix string) string {
	return path[1 : len(path)-len(suffix)]
}
