package chat

// Kind identifies which wire transport an adapter wraps. A user may hold at
// most one live adapter per kind.
type Kind string

const (
	KindEvent Kind = "event" // websocket, named-event frames
	KindLine  Kind = "line"  // TCP, newline-delimited JSON
)

// Adapter wraps one physical connection. Send must not block: a slow client
// returns ErrSendBufferFull instead of stalling fan-out to others.
type Adapter interface {
	Kind() Kind
	Send(event string, payload any) error
	Close()
}
