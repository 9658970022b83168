package chat

import (
	"context"
	"sync"
	"time"

	"github.com/bharadwajreddy07/Namaste-Messenger/internal/models"
)

type sentEvent struct {
	event   string
	payload any
}

type fakeAdapter struct {
	kind    Kind
	mu      sync.Mutex
	events  []sentEvent
	sendErr error
	closed  bool
}

func newFakeAdapter(kind Kind) *fakeAdapter {
	return &fakeAdapter{kind: kind}
}

func (f *fakeAdapter) Kind() Kind { return f.kind }

func (f *fakeAdapter) Send(event string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.events = append(f.events, sentEvent{event: event, payload: payload})
	return nil
}

func (f *fakeAdapter) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeAdapter) sent() []sentEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentEvent, len(f.events))
	copy(out, f.events)
	return out
}

func (f *fakeAdapter) count(event string) int {
	n := 0
	for _, e := range f.sent() {
		if e.event == event {
			n++
		}
	}
	return n
}

func (f *fakeAdapter) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeStore struct {
	mu        sync.Mutex
	users     []models.User
	saved     []*models.Message
	saveErr   error
	online    map[string]bool
	delivered map[string][]string // msgId -> usernames acked
	nextID    uint
}

func newFakeStore(users ...models.User) *fakeStore {
	return &fakeStore{
		users:     users,
		online:    make(map[string]bool),
		delivered: make(map[string][]string),
		nextID:    100,
	}
}

func (s *fakeStore) FindUserByName(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].Username == username {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeStore) FindUserByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeStore) ListUsersExcept(_ context.Context, username string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, u := range s.users {
		if u.Username != username {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeStore) SaveMessage(_ context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.nextID++
	msg.ID = s.nextID
	s.saved = append(s.saved, msg)
	return nil
}

func (s *fakeStore) MarkRecipientDelivered(_ context.Context, msgID, username string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.saved {
		if m.MsgID != msgID {
			continue
		}
		for i := range m.Recipients {
			if m.Recipients[i].Username == username {
				m.Recipients[i].Delivered = true
				s.delivered[msgID] = append(s.delivered[msgID], username)
			}
		}
		return nil
	}
	return ErrNotFound
}

func (s *fakeStore) SetOnline(_ context.Context, username string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online[username] = true
	return nil
}

func (s *fakeStore) SetOffline(_ context.Context, username string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online[username] = false
	return nil
}

func (s *fakeStore) savedMessages() []*models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Message, len(s.saved))
	copy(out, s.saved)
	return out
}

func (s *fakeStore) isOnline(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online[username]
}
