// Package ipc implements the frontend/backend transport of §4.4: an
// abstract framed request/response protocol reusing HTTP's start-line,
// headers, and body over a UNIX-domain stream socket. There is no
// persistent server — the frontend listens, the worker connects once per
// compile.
package ipc

import (
	"bufio"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/scribble-lang/scribble/internal/errs"
)

// Request is one worker→frontend line: "METHOD PATH HTTP/1.1", headers,
// and an optional JSON body.
type Request struct {
	Method string
	Path   string
	Body   []byte
}

// Response is one frontend→worker reply: a status (e.g. "200 HELLO",
// "200 OK") and an optional JSON body.
type Response struct {
	Status string
	Body   []byte
}

func writeMessage(w *bufio.Writer, startLine string, body []byte) error {
	if _, err := fmt.Fprintf(w, "%s\r\n", startLine); err != nil {
		return errs.NewHTTPError("write start line: %v", err)
	}
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return errs.NewHTTPError("write headers: %v", err)
	}
	if len(body) > 0 {
		if _, err := w.Write(body); err != nil {
			return errs.NewHTTPError("write body: %v", err)
		}
	}
	return w.Flush()
}

func readMessage(r *textproto.Reader) (startLine string, body []byte, err error) {
	startLine, err = r.ReadLine()
	if err != nil {
		if err == io.EOF {
			return "", nil, io.EOF
		}
		return "", nil, errs.NewHTTPError("read start line: %v", err)
	}
	header, err := r.ReadMIMEHeader()
	if err != nil && err != io.EOF {
		return "", nil, errs.NewHTTPError("read headers: %v", err)
	}
	n := 0
	if cl := header.Get("Content-Length"); cl != "" {
		n, err = strconv.Atoi(cl)
		if err != nil {
			return "", nil, errs.NewHTTPError("bad Content-Length %q: %v", cl, err)
		}
	}
	if n == 0 {
		return startLine, nil, nil
	}
	body = make([]byte, n)
	if _, err := io.ReadFull(r.R, body); err != nil {
		return "", nil, errs.NewHTTPError("read body: %v", err)
	}
	return startLine, body, nil
}

// WriteRequest writes req in "METHOD PATH HTTP/1.1" form.
func WriteRequest(w *bufio.Writer, req Request) error {
	return writeMessage(w, fmt.Sprintf("%s %s HTTP/1.1", req.Method, req.Path), req.Body)
}

// ReadRequest reads one Request, returning io.EOF when the peer closed the
// socket (the worker's cancellation signal, per §4.4).
func ReadRequest(r *textproto.Reader) (Request, error) {
	line, body, err := readMessage(r)
	if err != nil {
		return Request{}, err
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Request{}, errs.NewHTTPError("malformed request line %q", line)
	}
	return Request{Method: fields[0], Path: fields[1], Body: body}, nil
}

// WriteResponse writes resp in "HTTP/1.1 <status>" form.
func WriteResponse(w *bufio.Writer, resp Response) error {
	return writeMessage(w, "HTTP/1.1 "+resp.Status, resp.Body)
}

// ReadResponse reads one Response.
func ReadResponse(r *textproto.Reader) (Response, error) {
	line, body, err := readMessage(r)
	if err != nil {
		return Response{}, err
	}
	status := strings.TrimPrefix(line, "HTTP/1.1 ")
	return Response{Status: status, Body: body}, nil
}
