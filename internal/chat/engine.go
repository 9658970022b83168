// Package chat is the realtime core: it tracks which users are reachable
// over which adapters, routes messages and typing signals to live
// connections, and turns registry transitions into presence broadcasts. It
// is transport-agnostic; the ws and tcpline packages plug into it through
// the Adapter interface.
package chat

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Engine bundles the core components around one shared registry.
type Engine struct {
	Registry *Registry
	Presence *Presence
	Router   *Router
	Typing   *TypingRelay
}

func NewEngine(store Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	reg := NewRegistry()
	return &Engine{
		Registry: reg,
		Presence: &Presence{store: store, reg: reg, log: logger, now: time.Now},
		Router:   &Router{store: store, reg: reg, log: logger, now: time.Now, newID: uuid.NewString},
		Typing:   &TypingRelay{reg: reg},
	}
}
