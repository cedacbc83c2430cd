package ipc

import (
	"github.com/scribble-lang/scribble/internal/errs"
	"github.com/scribble-lang/scribble/internal/support/jsonutil"
)

// Worker drives the connect-once side of the §4.4 handshake: say hello,
// fetch the bootstrap config, then emit stage start/done/errors/panic
// notifications as it works through the pipeline.
type Worker struct {
	conn *Conn
}

// Connect dials the frontend's socket and returns a Worker ready to begin
// the handshake.
func Connect(socketPath string) (*Worker, error) {
	conn, err := Dial(socketPath)
	if err != nil {
		return nil, err
	}
	return &Worker{conn: conn}, nil
}

func (w *Worker) Close() error { return w.conn.Close() }

func (w *Worker) get(path string, body []byte) (Response, error) {
	if err := w.conn.WriteRequest(Request{Method: "GET", Path: path, Body: body}); err != nil {
		return Response{}, err
	}
	return w.conn.ReadResponse()
}

// Hello performs step 1 of the handshake.
func (w *Worker) Hello() error {
	resp, err := w.get("/hello", nil)
	if err != nil {
		return err
	}
	if resp.Status != "200 HELLO" {
		return errs.NewHTTPError("expected HELLO, got %s", resp.Status)
	}
	return nil
}

// Bootstrap performs step 2: fetch the frontend's configuration.
func (w *Worker) Bootstrap() (BootstrapConfig, error) {
	resp, err := w.get("/bootstrap/config", nil)
	if err != nil {
		return BootstrapConfig{}, err
	}
	var cfg BootstrapConfig
	if err := jsonutil.Unmarshal(resp.Body, &cfg); err != nil {
		return BootstrapConfig{}, err
	}
	return cfg, nil
}

// NotifyStart posts "/<stage>/start", when that stage's debug flag asks
// for it.
func (w *Worker) NotifyStart(stage string) error {
	_, err := w.get("/"+stage+"/start", nil)
	return err
}

// NotifyDone posts "/<stage>/done".
func (w *Worker) NotifyDone(stage string) error {
	_, err := w.get("/"+stage+"/done", nil)
	return err
}

// PostErrors posts a stage's accumulated errors to "/<stage>/errors".
func (w *Worker) PostErrors(stage string, payload ErrorPayload) error {
	body, err := jsonutil.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = w.get("/"+stage+"/errors", body)
	return err
}

// Panic posts "/panic" with a short message, per §4.4 point 4, then the
// caller is expected to terminate the worker process.
func (w *Worker) Panic(message string) error {
	body, err := jsonutil.Marshal(PanicPayload{Message: message})
	if err != nil {
		return err
	}
	_, err = w.get("/panic", body)
	return err
}

// Goodbye performs step 5: signal success and let the frontend close out.
func (w *Worker) Goodbye() error {
	_, err := w.get("/goodbye", nil)
	return err
}
