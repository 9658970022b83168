package chat

import (
	"context"
	"log/slog"
	"time"
)

// Presence translates registry 0→1 and 1→0 transitions into durable online
// flags and broadcasts. Both transports funnel through here, so a user
// reconnecting on one kind while the other is still attached never produces
// a duplicate online announcement.
type Presence struct {
	store Store
	reg   *Registry
	log   *slog.Logger
	now   func() time.Time
}

// Connect admits the adapter to the registry and announces the user if this
// is their first live adapter. The superseded adapter of the same kind, if
// any, is closed here. The online snapshot always goes to the new adapter,
// whether or not it caused a transition.
func (p *Presence) Connect(ctx context.Context, user UserRef, kind Kind, a Adapter) {
	prev, first := p.reg.Admit(user.ID, user.Username, kind, a)
	if prev != nil && prev != a {
		prev.Close()
	}

	if first {
		if err := p.store.SetOnline(ctx, user.Username, p.now()); err != nil {
			p.log.Warn("persist online flag", "username", user.Username, "err", err)
		}
	}

	// Snapshot after admit so the arrival sees itself; send it before the
	// broadcast so it never receives a userOnline it is missing from.
	if err := a.Send(EventOnlineUsers, p.reg.OnlineUsers()); err != nil {
		p.log.Warn("send online snapshot", "username", user.Username, "err", err)
	}

	if first {
		ts := p.now().UnixMilli()
		for _, other := range p.reg.Others(user.Username) {
			p.trySend(other, EventUserOnline, user)
			p.trySend(other, EventPresence, PresencePayload{Username: user.Username, Status: "online", TS: ts})
		}
	}
}

// Disconnect evicts the adapter and, when it was the user's last one,
// persists the offline flag and announces the departure. Eviction happens
// synchronously on connection close; there is no grace period.
func (p *Presence) Disconnect(ctx context.Context, user UserRef, kind Kind, a Adapter) {
	if last := p.reg.Evict(user.Username, kind, a); !last {
		return
	}

	if err := p.store.SetOffline(ctx, user.Username, p.now()); err != nil {
		p.log.Warn("persist offline flag", "username", user.Username, "err", err)
	}

	ts := p.now().UnixMilli()
	for _, other := range p.reg.Others(user.Username) {
		p.trySend(other, EventUserLeft, user)
		p.trySend(other, EventPresence, PresencePayload{Username: user.Username, Status: "offline", TS: ts})
	}
}

func (p *Presence) trySend(a Adapter, event string, payload any) {
	if err := a.Send(event, payload); err != nil {
		p.log.Debug("presence send dropped", "event", event, "err", err)
	}
}
