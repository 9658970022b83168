package chat

// TypingSignal is transient state relayed between live sessions. It is never
// persisted and never queued for offline users.
type TypingSignal struct {
	IsTyping bool   `json:"isTyping"`
	ChatType string `json:"chatType"`
	ChatID   *uint  `json:"chatId"`
}

// TypingRelay propagates typing state at low latency. Redundant signals are
// harmless; last writer wins at the receiving client.
type TypingRelay struct {
	reg *Registry
}

// Relay routes one signal. General scope goes to every other live adapter;
// direct scope goes only to the target user's adapters, and is silently
// dropped when none are live.
func (t *TypingRelay) Relay(sender UserRef, sig TypingSignal) {
	payload := TypingPayload{
		UserID:   sender.ID,
		Username: sender.Username,
		IsTyping: sig.IsTyping,
		ChatType: sig.ChatType,
		ChatID:   sig.ChatID,
	}

	switch sig.ChatType {
	case TypeDirect:
		if sig.ChatID == nil {
			return
		}
		for _, a := range t.reg.ResolveID(*sig.ChatID) {
			_ = a.Send(EventUserTyping, payload)
		}
	default:
		// Others excludes every adapter of the sender, their other open
		// sessions included; a client never sees its own user typing.
		for _, a := range t.reg.Others(sender.Username) {
			_ = a.Send(EventUserTyping, payload)
		}
	}
}
