// Socket transport for the textual command surface. spec §1 names "the
// hook/IPC emitter" as an external collaborator; this is the minimal
// concrete transport cmd/tilewm needs so the `tilewm` binary can be both
// the daemon and its own command-line client, the way herbstluftwm's
// own client/daemon pair talks over a socket. Grounded on the pack's
// general client/server shape (ItsNotGoodName-x-ipcviewer's huma-based
// request/response server) adapted onto a Unix domain socket instead of
// HTTP, since the core has no web-framework dependency to justify.
package command

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/sashwm/sash/wm"
)

// SocketPath returns the default control socket location, preferring
// XDG_RUNTIME_DIR the way most window-manager control sockets do.
func SocketPath() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "tilewm.sock")
}

type request struct {
	Argv []string `json:"argv"`
}

type response struct {
	Output   string `json:"output"`
	ErrKind  string `json:"err_kind,omitempty"`
	ErrMsg   string `json:"err_msg,omitempty"`
	ExitCode int    `json:"exit_code"`
}

// Request is one accept loop's argv handed inward to whatever drains
// Requests. Reply is buffered so the drain side never blocks on a
// listener that has already given up on its connection.
type Request struct {
	Argv  []string
	Reply chan Result
}

// Result is Dispatch's return tuple, boxed for transport over Reply.
type Result struct {
	Output   string
	ErrKind  string
	ErrMsg   string
	ExitCode int
}

// Server listens on path and, per spec §5, never touches World itself:
// each connection's argv is handed to Requests and the JSON response is
// built from whatever Result comes back over the per-request Reply
// channel. The single goroutine draining Requests — the dispatcher's
// event loop in cmd/tilewm — is the only caller of Dispatch, keeping
// every World mutation on one logical thread.
type Server struct {
	World    *wm.World
	Requests chan Request
	path     string
	ln       net.Listener
}

func NewServer(w *wm.World, path string) *Server {
	return &Server{World: w, path: path, Requests: make(chan Request, 32)}
}

func (s *Server) Serve() error {
	os.Remove(s.path)
	ln, err := net.Listen("unix", s.path)
	if err != nil {
		return err
	}
	s.ln = ln
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go s.handle(conn)
	}
}

func (s *Server) Close() error {
	if s.ln != nil {
		return s.ln.Close()
	}
	return nil
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	var req request
	if err := json.NewDecoder(bufio.NewReader(conn)).Decode(&req); err != nil {
		log.WithError(err).Debug("command: malformed request")
		return
	}
	reply := make(chan Result, 1)
	s.Requests <- Request{Argv: req.Argv, Reply: reply}
	result := <-reply

	resp := response{Output: result.Output, ExitCode: result.ExitCode}
	if result.ErrKind != "" {
		resp.ErrKind = result.ErrKind
		resp.ErrMsg = result.ErrMsg
	}
	if err := json.NewEncoder(conn).Encode(resp); err != nil {
		log.WithError(err).Debug("command: failed to write response")
	}
}

// Send is the client half: it connects to path, sends argv, and returns
// the daemon's output/exit code.
func Send(path string, argv []string) (output string, exitCode int, err error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return "", 1, err
	}
	defer conn.Close()

	if err := json.NewEncoder(conn).Encode(request{Argv: argv}); err != nil {
		return "", 1, err
	}
	var resp response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return "", 1, err
	}
	if resp.ErrKind != "" {
		return resp.Output, resp.ExitCode, &cliError{kind: resp.ErrKind, msg: resp.ErrMsg}
	}
	return resp.Output, resp.ExitCode, nil
}

type cliError struct{ kind, msg string }

func (e *cliError) Error() string { return e.kind + ": " + e.msg }
