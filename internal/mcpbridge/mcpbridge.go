// Package mcpbridge exposes a connected actorwire client's actors as MCP
// tools, so an agent runtime can drive actor methods over MCP stdio
// instead of speaking raw RESP.
package mcpbridge

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/actorwire/actorwire/internal/client"
)

// Bridge wraps an MCP server backed by a single actorwire client
// connection.
type Bridge struct {
	server *mcp.Server
	client *client.Client
}

// New builds a Bridge over an already-connected client and registers its
// fixed tool set (list_actors/actor_info/call_actor — actors are named in
// the tool arguments, so no per-actor tool registration is needed). The
// client's actor roster is refreshed from the server each time list_actors
// runs; actor_info and call_actor use the roster as last refreshed.
func New(c *client.Client) *Bridge {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "actorwire",
		Version: "0.1.0",
	}, nil)

	b := &Bridge{server: mcpServer, client: c}
	b.registerTools()
	return b
}

// Run drives the MCP server over transport until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context, transport mcp.Transport) error {
	return b.server.Run(ctx, transport)
}

func (b *Bridge) registerTools() {
	mcp.AddTool(b.server, &mcp.Tool{
		Name:        "list_actors",
		Description: "List the names of every actor loaded on the connected actorwire server",
	}, b.handleListActors)

	mcp.AddTool(b.server, &mcp.Tool{
		Name:        "actor_info",
		Description: "Describe an actor's methods, parameters, and return types",
	}, b.handleActorInfo)

	mcp.AddTool(b.server, &mcp.Tool{
		Name:        "call_actor",
		Description: "Invoke a method on a loaded actor with positional and/or named arguments",
	}, b.handleCallActor)
}

// ListActorsResult is the list_actors tool's result shape.
type ListActorsResult struct {
	Actors []string `json:"actors"`
}

func (b *Bridge) handleListActors(ctx context.Context,
	req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, ListActorsResult, error) {

	if err := b.client.Reload(); err != nil {
		return nil, ListActorsResult{}, fmt.Errorf("refreshing actor roster: %w", err)
	}
	return nil, ListActorsResult{Actors: b.client.ListActors()}, nil
}

// ActorInfoArgs names the actor to describe.
type ActorInfoArgs struct {
	Actor string `json:"actor" jsonschema:"Name of the actor to describe"`
}

// ActorInfoResult is the actor_info tool's result shape: the actor's raw
// ActorInfo mapping, as sent by core.info().
type ActorInfoResult struct {
	Info map[string]any `json:"info"`
}

func (b *Bridge) handleActorInfo(ctx context.Context,
	req *mcp.CallToolRequest, args ActorInfoArgs) (*mcp.CallToolResult, ActorInfoResult, error) {

	info, err := b.client.Doc(args.Actor)
	if err != nil {
		return nil, ActorInfoResult{}, err
	}
	return nil, ActorInfoResult{Info: info}, nil
}

// CallActorArgs identifies the target method and its call arguments.
type CallActorArgs struct {
	Actor  string         `json:"actor" jsonschema:"Name of the actor to call"`
	Method string         `json:"method" jsonschema:"Name of the method to invoke"`
	Args   []any          `json:"args,omitempty" jsonschema:"Positional arguments"`
	Kwargs map[string]any `json:"kwargs,omitempty" jsonschema:"Named arguments"`
}

// CallActorResult carries either a successful result or the remote error
// message, mirroring the wire envelope's success/result/error shape.
type CallActorResult struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (b *Bridge) handleCallActor(ctx context.Context,
	req *mcp.CallToolRequest, args CallActorArgs) (*mcp.CallToolResult, CallActorResult, error) {

	proxy := b.client.Actor(args.Actor)
	if proxy == nil {
		return nil, CallActorResult{
			Success: false,
			Error:   fmt.Sprintf("actor %q not discovered", args.Actor),
		}, nil
	}

	result, err := proxy.Call(args.Method, args.Args, args.Kwargs)
	if err != nil {
		return nil, CallActorResult{Success: false, Error: err.Error()}, nil
	}
	return nil, CallActorResult{Success: true, Result: result}, nil
}
