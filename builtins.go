package main

import (
	"context"
	"encoding/json"
	"time"
)

// Builtins are the methods served by `xdrpc serve` and by `--base :memory:`.
type Builtins struct {
	Started time.Time
}

// Ping answers "pong".
func (b *Builtins) Ping() string {
	return "pong"
}

// Echo returns its named arguments unchanged.
func (b *Builtins) Echo(args map[string]json.RawMessage) map[string]json.RawMessage {
	return args
}

type statusResponse struct {
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// Status reports the version and uptime of the endpoint.
func (b *Builtins) Status(ctx context.Context) (*statusResponse, error) {
	return &statusResponse{
		Version: Version,
		Uptime:  time.Since(b.Started).Round(time.Second).String(),
	}, ctx.Err()
}
