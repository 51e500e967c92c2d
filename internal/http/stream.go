package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/goliatone/go-cms-ui/internal/store"
	command "github.com/goliatone/go-command"
	"github.com/gorilla/websocket"
)

const streamWriteTimeout = 10 * time.Second

var streamUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 16384,
}

// stateMessage is pushed to stream clients after every dispatch. The first
// message carries no action.
type stateMessage struct {
	Action string          `json:"action,omitempty"`
	State  store.RootState `json:"state"`
}

func (a *UIServicesAPI) handleWorkspaceStream(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		unavailable(w)
		return
	}
	conn, err := streamUpgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Warn("http.stream.upgrade_failed", "error", err)
		return
	}
	defer conn.Close()

	updates := newLatestState()
	unsubscribe := a.store.Subscribe(func(state store.RootState, action command.Message) {
		updates.offer(stateMessage{Action: action.Type(), State: state})
	})
	defer unsubscribe()

	// the client never sends data; reading surfaces close frames
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(msg stateMessage) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			a.logger.Debug("http.stream.write_failed", "error", err)
			return false
		}
		return true
	}

	if !send(stateMessage{State: a.store.State()}) {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			return
		case msg := <-updates.ch:
			if !send(msg) {
				return
			}
		}
	}
}

// latestState holds at most one pending message. A slow client skips
// intermediate states but always receives the newest one.
type latestState struct {
	mu sync.Mutex
	ch chan stateMessage
}

func newLatestState() *latestState {
	return &latestState{ch: make(chan stateMessage, 1)}
}

func (l *latestState) offer(msg stateMessage) {
	l.mu.Lock()
	defer l.mu.Unlock()
	select {
	case <-l.ch:
	default:
	}
	l.ch <- msg
}
