// Package client implements the client-side proxy: connect, discover
// actors via core.list_actors/<actor>.info, and expose each as a
// navigable handle whose calls encode requests and decode responses.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"sort"
	"sync"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/actorwire/actorwire/internal/actorinfo"
	"github.com/actorwire/actorwire/internal/engine"
	"github.com/actorwire/actorwire/internal/wire"
	"github.com/actorwire/actorwire/internal/wireerr"
)

// RemoteException is returned whenever a call's envelope reports
// success=false. It carries the same Error/ErrorType pair the server
// sent.
type RemoteException struct {
	Message   string
	ErrorType wireerr.Type
}

func (e *RemoteException) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.ErrorType)
}

// DTOFactory mirrors actorinfo.DTOFactory on the client side: a fresh zero
// value ready for FromMapping to populate.
type DTOFactory = actorinfo.DTOFactory

// Client holds one TCP connection to an actorwire server and the actor
// proxies discovered over it at connect time.
type Client struct {
	conn net.Conn
	r    *wire.Reader
	w    *wire.Writer

	// callMu serializes request/response pairs on the single connection:
	// the protocol has no pipelining, so a second call (e.g. one issued
	// via CallAsync) queues behind the in-flight one.
	callMu sync.Mutex

	actors map[string]*ActorProxy

	// dtoTypes maps a DTO type tag (as it appears in a MethodInfo's
	// param/result tag) to the factory that reconstructs it. Populated
	// by RegisterDTO: the client cannot load arbitrary actor modules
	// into its own process to discover types, so callers declare the
	// DTO types they expect results in.
	dtoTypes map[string]DTOFactory
}

// Dial opens a connection to addr and discovers every currently loaded
// actor via core.list_actors / <actor>.info.
func Dial(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}

	c := &Client{
		conn:     conn,
		r:        wire.NewReader(conn),
		w:        wire.NewWriter(conn),
		actors:   make(map[string]*ActorProxy),
		dtoTypes: make(map[string]DTOFactory),
	}

	if err := c.Reload(); err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

// RegisterDTO makes typeName resolvable for client-side result
// reconstruction. Call this once per DTO type the caller's actors expose,
// before issuing calls whose results should come back as that concrete
// type rather than a raw map[string]any.
func (c *Client) RegisterDTO(typeName string, factory DTOFactory) {
	c.dtoTypes[typeName] = factory
}

// Reload re-runs actor discovery, refreshing the proxy table. Useful
// after a register_actor/unregister_actor call made from elsewhere.
func (c *Client) Reload() error {
	names, err := c.listActors()
	if err != nil {
		return err
	}

	fresh := make(map[string]*ActorProxy, len(names))
	for _, name := range names {
		info, err := c.actorInfo(name)
		if err != nil {
			return fmt.Errorf("fetching info for actor %q: %w", name, err)
		}
		fresh[name] = &ActorProxy{client: c, info: info}
	}

	c.actors = fresh
	return nil
}

// ListActors returns the names of every actor discovered at the last
// connect/Reload.
func (c *Client) ListActors() []string {
	names := make([]string, 0, len(c.actors))
	for name := range c.actors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Actor returns the proxy for name, or nil if no such actor was discovered.
func (c *Client) Actor(name string) *ActorProxy { return c.actors[name] }

// Doc returns the raw ActorInfo mapping for name.
func (c *Client) Doc(name string) (map[string]any, error) {
	proxy := c.Actor(name)
	if proxy == nil {
		return nil, fmt.Errorf("actor %q not discovered", name)
	}
	return proxy.info, nil
}

func (c *Client) listActors() ([]string, error) {
	result, err := c.execute("core", "list_actors", nil, nil)
	if err != nil {
		return nil, err
	}
	raw, _ := result.([]any)
	names := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			names = append(names, s)
		}
	}
	return names, nil
}

func (c *Client) actorInfo(name string) (map[string]any, error) {
	result, err := c.execute("core", "info", []any{name}, nil)
	if err != nil {
		return nil, err
	}
	info, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("core.info returned a non-mapping result")
	}
	return info, nil
}

// execute sends one request and blocks for its response, no pipelining.
// success=false unwraps as a *RemoteException.
func (c *Client) execute(actorName, methodName string,
	args []any, kwargs map[string]any) (any, error) {

	c.callMu.Lock()
	defer c.callMu.Unlock()

	payload, err := encodePayload(args, kwargs)
	if err != nil {
		return nil, fmt.Errorf("encoding request payload: %w", err)
	}

	elems := [][]byte{[]byte(actorName), []byte(methodName)}
	if payload != nil {
		elems = append(elems, payload)
	}
	if err := c.w.WriteArray(elems); err != nil {
		return nil, fmt.Errorf("writing request: %w", err)
	}

	body, err := c.r.ReadReply()
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var env struct {
		Success   bool            `json:"success"`
		Result    json.RawMessage `json:"result"`
		Error     *string         `json:"error"`
		ErrorType *wireerr.Type   `json:"error_type"`
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding response envelope: %w", err)
	}

	if !env.Success {
		msg := ""
		if env.Error != nil {
			msg = *env.Error
		}
		et := wireerr.InternalServerError
		if env.ErrorType != nil {
			et = *env.ErrorType
		}
		return nil, &RemoteException{Message: msg, ErrorType: et}
	}

	return decodeResult(env.Result)
}

func decodeResult(raw json.RawMessage) (any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}
	return demoteNumbers(v), nil
}

// demoteNumbers converts json.Number leaves into int64/float64 so callers
// (and ActorProxy.Call's DTO reconstruction) see the same native types the
// server's own bind.Result produces.
func demoteNumbers(v any) any {
	switch vv := v.(type) {
	case json.Number:
		if i, err := vv.Int64(); err == nil {
			return i
		}
		f, _ := vv.Float64()
		return f
	case []any:
		for i, e := range vv {
			vv[i] = demoteNumbers(e)
		}
		return vv
	case map[string]any:
		for k, e := range vv {
			vv[k] = demoteNumbers(e)
		}
		return vv
	default:
		return v
	}
}

// encodePayload JSON-encodes {args, kwargs} with a fallback that converts
// any value implementing actorinfo.DTO into its mapping. Returns nil for
// a genuinely empty call (no args, no kwargs), in which case the request
// omits the payload element entirely.
func encodePayload(args []any, kwargs map[string]any) ([]byte, error) {
	if len(args) == 0 && len(kwargs) == 0 {
		return nil, nil
	}

	encodedArgs := make([]any, len(args))
	for i, a := range args {
		encodedArgs[i] = toWireValue(a)
	}
	encodedKwargs := make(map[string]any, len(kwargs))
	for k, v := range kwargs {
		encodedKwargs[k] = toWireValue(v)
	}

	return json.Marshal(map[string]any{
		"args":   encodedArgs,
		"kwargs": encodedKwargs,
	})
}

// toWireValue converts a DTO-typed argument into its mapping shape; any
// other value passes through untouched for encoding/json to handle.
func toWireValue(v any) any {
	if dto, ok := v.(actorinfo.DTO); ok {
		m, err := dto.ToMapping()
		if err != nil {
			return v
		}
		return m
	}
	return v
}

// ActorProxy makes one remote actor's methods look local.
type ActorProxy struct {
	client *Client
	info   map[string]any
}

// Methods returns the names of every method this actor exposes.
func (p *ActorProxy) Methods() []string {
	methods, _ := p.info["methods"].(map[string]any)
	out := make([]string, 0, len(methods))
	for name := range methods {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Doc returns a method's docstring, or "" if the method is unknown.
func (p *ActorProxy) Doc(method string) string {
	methods, _ := p.info["methods"].(map[string]any)
	m, _ := methods[method].(map[string]any)
	doc, _ := m["doc"].(string)
	return doc
}

// Call invokes method with the given positional and named arguments:
// pack into {args, kwargs}, send, await the response, and on success
// attempt DTO reconstruction of the result if the declared result_type is
// a registered DTO and the raw result is a mapping; otherwise return the
// raw decoded value. On failure, returns a *RemoteException.
func (p *ActorProxy) Call(method string, args []any, kwargs map[string]any) (any, error) {
	actorName, _ := p.info["name"].(string)

	result, err := p.client.execute(actorName, method, args, kwargs)
	if err != nil {
		return nil, err
	}

	resultTag := p.resultTag(method)
	if factory, ok := p.client.dtoTypes[resultTag]; ok {
		if m, ok := result.(map[string]any); ok {
			dto := factory()
			if err := dto.FromMapping(m); err == nil {
				return dto, nil
			}
		}
	}
	return result, nil
}

// CallAsync invokes method without blocking the caller: the request runs
// on a background goroutine (queued behind any in-flight call on this
// connection) and the returned future completes with the call's outcome.
// Await with a deadline context to impose a per-call timeout; the
// connection itself is untouched on timeout, so the response is drained
// by the goroutine and discarded.
func (p *ActorProxy) CallAsync(method string, args []any,
	kwargs map[string]any) engine.Future[any] {

	promise := engine.NewPromise[any]()
	go func() {
		result, err := p.Call(method, args, kwargs)
		if err != nil {
			promise.Complete(fn.Err[any](err))
			return
		}
		promise.Complete(fn.Ok(result))
	}()
	return promise.Future()
}

func (p *ActorProxy) resultTag(method string) string {
	methods, _ := p.info["methods"].(map[string]any)
	m, _ := methods[method].(map[string]any)
	tag, _ := m["result_type"].(string)
	return tag
}
