// Package dispatch implements the request dispatcher: given a decoded
// (actor, method, args, kwargs) request, it resolves the target actor and
// method, binds arguments, invokes, serializes the result, and maps every
// outcome onto the wire error taxonomy. Resolution runs as an ordered
// stage chain; each stage can short-circuit with a typed error, and the
// whole call is wrapped in a recover() so a misbehaving actor method can
// never take down the connection goroutine.
package dispatch

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/actorwire/actorwire/internal/bind"
	"github.com/actorwire/actorwire/internal/registry"
	"github.com/actorwire/actorwire/internal/wireerr"
)

// Request is a decoded RPC call, ready for resolution.
type Request struct {
	ActorName  string
	MethodName string
	Args       []any
	Kwargs     map[string]any
}

// Response is the wire-level outcome of a Dispatch call. Exactly one of
// Result or Error is meaningful, selected by Success.
type Response struct {
	Success   bool
	Result    any
	Error     string
	ErrorType wireerr.Type
}

// Dispatcher resolves and invokes actor methods against a Registry.
type Dispatcher struct {
	registry *registry.Registry
}

// New creates a Dispatcher backed by reg.
func New(reg *registry.Registry) *Dispatcher {
	return &Dispatcher{registry: reg}
}

// Dispatch resolves a request, first match wins:
//  1. unknown actor -> ACTOR_ERROR
//  2. unknown method -> BAD_REQUEST
//  3. binder failure -> BAD_REQUEST
//  4. method panics/returns an error -> ACTOR_ERROR
//  5. serializer failure -> ACTOR_ERROR
//  6. otherwise success
//
// Any uncaught defect inside the dispatcher itself (a recovered panic) is
// reported as INTERNAL_SERVER_ERROR rather than propagated.
func (d *Dispatcher) Dispatch(req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("dispatcher recovered from panic",
				"actor", req.ActorName, "method", req.MethodName, "panic", r)
			resp = errorResponse(wireerr.InternalServerError,
				fmt.Sprintf("internal error: %v", r))
		}
	}()

	actor, ok := d.registry.Get(req.ActorName)
	if !ok {
		return errorResponse(wireerr.ActorError, "actor not found")
	}

	method, ok := actor.Methods[req.MethodName]
	if !ok {
		return errorResponse(wireerr.BadRequest, "unknown method")
	}

	boundArgs, err := bind.Args(method.Params, req.Args, req.Kwargs, actor.DTOTypes)
	if err != nil {
		return errorResponse(wireerr.BadRequest, err.Error())
	}

	start := time.Now()
	raw, invokeErr := invoke(method.Invoke, boundArgs)
	duration := time.Since(start)

	if invokeErr != nil {
		slog.Warn("actor method failed",
			"actor", req.ActorName, "method", req.MethodName,
			"duration", duration, "error", invokeErr)

		// A method can surface a caller-correctable failure by returning
		// a typed wire error; anything else is an actor failure.
		var werr *wireerr.Error
		if errors.As(invokeErr, &werr) {
			return errorResponse(werr.Type, werr.Message)
		}
		return errorResponse(wireerr.ActorError, invokeErr.Error())
	}

	result, err := bind.Result(method.ResultTag, raw)
	if err != nil {
		return errorResponse(wireerr.ActorError, err.Error())
	}

	slog.Debug("actor method completed",
		"actor", req.ActorName, "method", req.MethodName, "duration", duration)

	return Response{Success: true, Result: result}
}

// invoke calls a method's Invoke closure, converting a panic raised inside
// the actor's own code into a regular error so it maps to ACTOR_ERROR
// rather than unwinding into Dispatch's own recover (which is reserved for
// defects in the dispatcher, not the actor).
func invoke(fn func(args []any) (any, error), args []any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("actor method panicked: %v", r)
		}
	}()
	return fn(args)
}

func errorResponse(t wireerr.Type, msg string) Response {
	return Response{Success: false, Error: msg, ErrorType: t}
}
