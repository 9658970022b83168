package tcpline

import (
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/bharadwajreddy07/Namaste-Messenger/internal/chat"
)

const writeTimeout = 10 * time.Second

// adapter wraps one TCP connection as a chat.Adapter. Outbound frames are
// queued on a buffered channel and written by one goroutine, one JSON line
// per frame.
type adapter struct {
	conn net.Conn
	out  chan []byte
	done chan struct{}
	once sync.Once
}

func newAdapter(conn net.Conn) *adapter {
	a := &adapter{
		conn: conn,
		out:  make(chan []byte, 64),
		done: make(chan struct{}),
	}
	go a.writeLoop()
	return a
}

func (a *adapter) Kind() chat.Kind { return chat.KindLine }

func (a *adapter) Send(event string, payload any) error {
	frame := lineFrame(event, payload)
	if frame == nil {
		// Event has no representation in the line protocol.
		return nil
	}
	b, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	b = append(b, '\n')

	select {
	case <-a.done:
		return chat.ErrAdapterClosed
	default:
	}
	select {
	case a.out <- b:
		return nil
	case <-a.done:
		return chat.ErrAdapterClosed
	default:
		return chat.ErrSendBufferFull
	}
}

func (a *adapter) Close() {
	a.once.Do(func() {
		close(a.done)
		_ = a.conn.Close()
	})
}

func (a *adapter) writeLoop() {
	for {
		select {
		case <-a.done:
			return
		case b := <-a.out:
			_ = a.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if _, err := a.conn.Write(b); err != nil {
				a.Close()
				return
			}
		}
	}
}
