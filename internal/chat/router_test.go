package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/bharadwajreddy07/Namaste-Messenger/internal/models"
)

func newTestRouter(fs *fakeStore) (*Router, *Registry) {
	reg := NewRegistry()
	n := 0
	rt := &Router{
		store: fs,
		reg:   reg,
		log:   slog.Default(),
		now:   time.Now,
		newID: func() string { n++; return fmt.Sprintf("msg-%d", n) },
	}
	return rt, reg
}

func TestRouterRejectsEmptyContent(t *testing.T) {
	fs := newFakeStore(models.User{ID: 1, Username: "alice"})
	rt, _ := newTestRouter(fs)

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := rt.Send(context.Background(), UserRef{ID: 1, Username: "alice"}, SendInput{Content: content})
		if !errors.Is(err, ErrEmptyContent) {
			t.Errorf("Send(content=%q) err = %v, want ErrEmptyContent", content, err)
		}
	}
	if got := len(fs.savedMessages()); got != 0 {
		t.Errorf("store has %d messages after rejected sends, want 0", got)
	}
}

func TestRouterGeneralSnapshotsRecipients(t *testing.T) {
	fs := newFakeStore(
		models.User{ID: 1, Username: "alice"},
		models.User{ID: 2, Username: "bob"},
		models.User{ID: 3, Username: "carol"},
	)
	rt, _ := newTestRouter(fs)

	msg, err := rt.Send(context.Background(), UserRef{ID: 1, Username: "alice"}, SendInput{Content: "hi", To: ToAll})
	if err != nil {
		t.Fatalf("Send() err = %v", err)
	}

	if msg.Type != TypeGeneral || msg.To != ToAll {
		t.Errorf("message type/to = %q/%q, want general/all", msg.Type, msg.To)
	}
	if len(msg.Recipients) != 2 {
		t.Fatalf("recipients = %d, want 2 (everyone but the sender)", len(msg.Recipients))
	}
	for _, r := range msg.Recipients {
		if r.Username == "alice" {
			t.Error("sender appears in its own recipient snapshot")
		}
	}

	// A user created after the send never joins the snapshot.
	fs.mu.Lock()
	fs.users = append(fs.users, models.User{ID: 4, Username: "dave"})
	fs.mu.Unlock()
	if got := len(fs.savedMessages()[0].Recipients); got != 2 {
		t.Errorf("recipient snapshot grew to %d after a new user joined, want 2", got)
	}
}

func TestRouterDirectUnknownRecipient(t *testing.T) {
	fs := newFakeStore(models.User{ID: 1, Username: "alice"})
	rt, _ := newTestRouter(fs)

	missing := uint(42)
	_, err := rt.Send(context.Background(), UserRef{ID: 1, Username: "alice"}, SendInput{
		Type: TypeDirect, Content: "hi", RecipientID: &missing,
	})
	if !errors.Is(err, ErrRecipientNotFound) {
		t.Fatalf("Send() err = %v, want ErrRecipientNotFound", err)
	}
	if got := len(fs.savedMessages()); got != 0 {
		t.Errorf("store has %d messages after a failed direct send, want 0", got)
	}
}

func TestRouterDirectResolvesByIDAndName(t *testing.T) {
	fs := newFakeStore(models.User{ID: 1, Username: "alice"}, models.User{ID: 2, Username: "bob"})
	rt, _ := newTestRouter(fs)
	ctx := context.Background()
	alice := UserRef{ID: 1, Username: "alice"}

	bobID := uint(2)
	msg, err := rt.Send(ctx, alice, SendInput{Type: TypeDirect, Content: "by id", RecipientID: &bobID})
	if err != nil {
		t.Fatalf("Send(by id) err = %v", err)
	}
	if msg.To != "bob" || len(msg.Recipients) != 1 || msg.Recipients[0].Username != "bob" {
		t.Errorf("direct by id resolved to %q with recipients %v, want bob", msg.To, msg.Recipients)
	}

	msg, err = rt.Send(ctx, alice, SendInput{Content: "by name", To: "bob"})
	if err != nil {
		t.Fatalf("Send(by name) err = %v", err)
	}
	if msg.Type != TypeDirect || len(msg.Recipients) != 1 {
		t.Errorf("legacy to=username form gave type %q with %d recipients, want direct/1", msg.Type, len(msg.Recipients))
	}
}

func TestRouterPersistFailureAbortsFanOut(t *testing.T) {
	fs := newFakeStore(models.User{ID: 1, Username: "alice"}, models.User{ID: 2, Username: "bob"})
	fs.saveErr = errors.New("store unavailable")
	rt, reg := newTestRouter(fs)

	bobAdapter := newFakeAdapter(KindEvent)
	reg.Admit(2, "bob", KindEvent, bobAdapter)

	_, err := rt.Send(context.Background(), UserRef{ID: 1, Username: "alice"}, SendInput{Content: "hi"})
	if err == nil {
		t.Fatal("Send() succeeded despite persistence failure")
	}
	if got := bobAdapter.count(EventNewMessage); got != 0 {
		t.Errorf("bob received %d newMessage events for an unpersisted message, want 0", got)
	}
}

func TestRouterFanOutReachesAllAdaptersAndEchoesSender(t *testing.T) {
	fs := newFakeStore(
		models.User{ID: 1, Username: "alice"},
		models.User{ID: 2, Username: "bob"},
		models.User{ID: 3, Username: "carol"},
	)
	rt, reg := newTestRouter(fs)

	aliceEv := newFakeAdapter(KindEvent)
	reg.Admit(1, "alice", KindEvent, aliceEv)
	bobLn := newFakeAdapter(KindLine)
	reg.Admit(2, "bob", KindLine, bobLn)
	carolEv := newFakeAdapter(KindEvent)
	carolLn := newFakeAdapter(KindLine)
	reg.Admit(3, "carol", KindEvent, carolEv)
	reg.Admit(3, "carol", KindLine, carolLn)
	// carol's line socket closed moments earlier
	reg.Evict("carol", KindLine, carolLn)

	msg, err := rt.Send(context.Background(), UserRef{ID: 1, Username: "alice"}, SendInput{Content: "hi"})
	if err != nil {
		t.Fatalf("Send() err = %v", err)
	}

	for name, a := range map[string]*fakeAdapter{"bob line": bobLn, "carol event": carolEv, "alice echo": aliceEv} {
		if got := a.count(EventNewMessage); got != 1 {
			t.Errorf("%s adapter received %d newMessage events, want 1", name, got)
		}
	}
	if got := carolLn.count(EventNewMessage); got != 0 {
		t.Errorf("carol's closed line adapter received %d newMessage events, want 0", got)
	}

	payload := bobLn.sent()[0].payload.(MessagePayload)
	if payload.MsgID != msg.MsgID || payload.Content != "hi" {
		t.Errorf("delivered payload = %+v, want msgId %q content \"hi\"", payload, msg.MsgID)
	}
}

func TestRouterSendFailureIsIsolated(t *testing.T) {
	fs := newFakeStore(
		models.User{ID: 1, Username: "alice"},
		models.User{ID: 2, Username: "bob"},
		models.User{ID: 3, Username: "carol"},
	)
	rt, reg := newTestRouter(fs)

	broken := newFakeAdapter(KindEvent)
	broken.sendErr = ErrSendBufferFull
	reg.Admit(2, "bob", KindEvent, broken)
	carolAdapter := newFakeAdapter(KindEvent)
	reg.Admit(3, "carol", KindEvent, carolAdapter)

	if _, err := rt.Send(context.Background(), UserRef{ID: 1, Username: "alice"}, SendInput{Content: "hi"}); err != nil {
		t.Fatalf("Send() err = %v, want nil despite one slow adapter", err)
	}
	if got := carolAdapter.count(EventNewMessage); got != 1 {
		t.Errorf("carol received %d newMessage events, want 1 despite bob's failure", got)
	}
}

func TestRouterAckIdempotent(t *testing.T) {
	fs := newFakeStore(models.User{ID: 1, Username: "alice"}, models.User{ID: 2, Username: "bob"})
	rt, _ := newTestRouter(fs)
	ctx := context.Background()

	msg, err := rt.Send(ctx, UserRef{ID: 1, Username: "alice"}, SendInput{Content: "hi"})
	if err != nil {
		t.Fatalf("Send() err = %v", err)
	}

	if err := rt.Ack(ctx, "bob", msg.MsgID); err != nil {
		t.Fatalf("first Ack() err = %v", err)
	}
	if err := rt.Ack(ctx, "bob", msg.MsgID); err != nil {
		t.Fatalf("second Ack() err = %v, want nil (idempotent)", err)
	}

	saved := fs.savedMessages()[0]
	if !saved.Recipients[0].Delivered {
		t.Error("recipient not marked delivered after ack")
	}
}

func TestRouterAckUnknownMsgIDIsNoOp(t *testing.T) {
	fs := newFakeStore(models.User{ID: 1, Username: "alice"})
	rt, _ := newTestRouter(fs)

	if err := rt.Ack(context.Background(), "alice", "no-such-id"); err != nil {
		t.Errorf("Ack(unknown) err = %v, want nil", err)
	}
	if err := rt.Ack(context.Background(), "alice", ""); !errors.Is(err, ErrMissingMsgID) {
		t.Errorf("Ack(empty) err = %v, want ErrMissingMsgID", err)
	}
}
