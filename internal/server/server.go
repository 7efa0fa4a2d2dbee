// Package server implements the connection server: accept TCP
// connections, drive the wire codec per connection, feed the dispatcher,
// and write responses. One goroutine per connection; Start/Stop are
// guarded by a mutex and a quit channel so shutdown waits for in-flight
// connection goroutines.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/actorwire/actorwire/internal/actorinfo"
	"github.com/actorwire/actorwire/internal/actorload"
	"github.com/actorwire/actorwire/internal/dispatch"
	"github.com/actorwire/actorwire/internal/registry"
	"github.com/actorwire/actorwire/internal/sysactor"
	"github.com/actorwire/actorwire/internal/wire"
	"github.com/actorwire/actorwire/internal/wireerr"
)

// Config holds the settings that shape one Server instance.
type Config struct {
	// ListenAddr is the TCP address to listen on. Defaults to
	// "127.0.0.1:16000".
	ListenAddr string

	// EnableRegistration mounts the "system" actor, allowing clients to
	// call register_actor/unregister_actor at runtime. Off by
	// default: a server with EnableRegistration=false only ever serves
	// whatever was mounted at construction.
	EnableRegistration bool
}

// DefaultConfig returns the default listen address with runtime
// registration disabled.
func DefaultConfig() Config {
	return Config{ListenAddr: "127.0.0.1:16000"}
}

// Server accepts connections and dispatches requests against a shared
// Registry. The zero value is not usable; call New.
type Server struct {
	cfg        Config
	registry   *registry.Registry
	loader     *actorload.Loader
	dispatcher *dispatch.Dispatcher

	listener net.Listener

	mu      sync.RWMutex
	started bool
	quit    chan struct{}
	wg      sync.WaitGroup
}

// New constructs a Server, mounting the built-in core actor (and system, if
// cfg.EnableRegistration is set) into a fresh Registry. loader is the
// actor-loading facility system.register_actor uses; pass actorload.NewLoader()
// unless the caller needs to pre-seed builtins.
func New(cfg Config, loader *actorload.Loader) *Server {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultConfig().ListenAddr
	}

	reg := registry.New()
	mount(reg, registry.ReservedCore, sysactor.NewCore(reg))
	if cfg.EnableRegistration {
		mount(reg, registry.ReservedSystem, sysactor.NewSystem(reg, loader))
	}

	return &Server{
		cfg:        cfg,
		registry:   reg,
		loader:     loader,
		dispatcher: dispatch.New(reg),
		quit:       make(chan struct{}),
	}
}

// Registry exposes the shared actor table, e.g. so the daemon can mount
// additional first-party actors before calling Start.
func (s *Server) Registry() *registry.Registry { return s.registry }

// RegisterActor loads path and installs it into the shared registry as
// name, the same validation and loading system.register_actor performs for
// a connected client — exposed directly so cmd/actorwired can restore
// configured and persisted actors before the listener ever accepts a
// connection.
func (s *Server) RegisterActor(name, path string) error {
	_, err := sysactor.Register(s.registry, s.loader, name, path)
	return err
}

// mount builds and validates a built-in Descriptor's ActorInfo and
// installs it directly into the registry, bypassing the loader entirely:
// core and system are never dynamically loaded.
func mount(reg *registry.Registry, name string, desc actorinfo.Descriptor) {
	info, report := actorinfo.Build(name, "", "builtin", desc)
	if !report.OK() {
		panic(fmt.Sprintf("built-in actor %q failed validation: %v", name, report))
	}
	reg.Mount(name, info, "")
}

// Start binds the listener and begins accepting connections in a
// background goroutine. Returns once the listener is bound; Accept runs
// asynchronously.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("server already started")
	}

	// net.Listen("tcp", ...) sets SO_REUSEADDR by default on Unix
	// platforms.
	lis, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.ListenAddr, err)
	}
	s.listener = lis

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop(lis)
	}()

	s.started = true
	slog.Info("actorwire server listening", "addr", lis.Addr().String())
	return nil
}

// Stop stops accepting new connections and waits for every connection
// goroutine to finish. An in-progress request on an already-accepted
// connection is allowed to finish; Stop does not close live connections.
// Connection goroutines do not watch for shutdown, so Stop returns only
// once every peer has closed its connection (or framing has broken).
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	close(s.quit)
	err := s.listener.Close()
	s.wg.Wait()

	s.started = false
	slog.Info("actorwire server stopped")
	return err
}

// Addr returns the address the server is listening on, or "" if not
// started.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) acceptLoop(lis net.Listener) {
	for {
		conn, err := lis.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return
			default:
				slog.Error("accept failed", "error", err)
				return
			}
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// handleConn drives one connection until the peer closes it or framing
// breaks: strictly one outstanding request at a time, responses written
// in arrival order, independent of every other connection.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	addr := conn.RemoteAddr().String()
	slog.Info("new connection", "addr", addr)

	r := wire.NewReader(conn)
	w := wire.NewWriter(conn)

	for {
		elems, err := r.ReadRequest()
		if err != nil {
			if errors.Is(err, io.EOF) {
				slog.Info("connection closed", "addr", addr)
				return
			}
			// Framing errors close the connection without attempting
			// resynchronization.
			slog.Warn("framing error, closing connection",
				"addr", addr, "error", err)
			return
		}

		req, err := decodeRequest(elems)
		if err != nil {
			// A malformed request body (not a framing error — the RESP
			// array parsed fine, but its contents don't decode) is
			// reported as BAD_REQUEST rather than closing the
			// connection.
			writeEnvelope(w, dispatch.Response{
				Success: false, Error: err.Error(),
				ErrorType: wireerr.BadRequest,
			})
			continue
		}

		slog.Debug("dispatching call",
			"addr", addr, "actor", req.ActorName, "method", req.MethodName)

		resp := s.dispatcher.Dispatch(req)
		if err := writeEnvelope(w, resp); err != nil {
			slog.Warn("write failed, abandoning connection",
				"addr", addr, "error", err)
			return
		}
	}
}

// decodeRequest turns a RESP array's raw elements into a dispatch.Request:
// [actor_name, method_name, payload_json?]. payload_json may be absent
// for zero-arg calls.
func decodeRequest(elems [][]byte) (dispatch.Request, error) {
	if len(elems) < 2 {
		return dispatch.Request{}, fmt.Errorf(
			"request must have at least actor and method, got %d elements",
			len(elems))
	}

	req := dispatch.Request{
		ActorName:  string(elems[0]),
		MethodName: string(elems[1]),
		Args:       []any{},
		Kwargs:     map[string]any{},
	}

	if len(elems) < 3 || len(elems[2]) == 0 {
		return req, nil
	}

	var payload struct {
		Args   []any          `json:"args"`
		Kwargs map[string]any `json:"kwargs"`
	}

	dec := json.NewDecoder(bytes.NewReader(elems[2]))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return dispatch.Request{}, fmt.Errorf("malformed payload json: %w", err)
	}

	if payload.Args != nil {
		req.Args = payload.Args
	}
	if payload.Kwargs != nil {
		req.Kwargs = payload.Kwargs
	}
	return req, nil
}

// envelope is the wire-level response shape.
type envelope struct {
	Success   bool          `json:"success"`
	Result    any           `json:"result"`
	Error     *string       `json:"error"`
	ErrorType *wireerr.Type `json:"error_type"`
}

func writeEnvelope(w *wire.Writer, resp dispatch.Response) error {
	env := envelope{Success: resp.Success, Result: resp.Result}
	if !resp.Success {
		env.Error = &resp.Error
		env.ErrorType = &resp.ErrorType
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshaling response envelope: %w", err)
	}
	return w.WriteBulkString(body)
}
