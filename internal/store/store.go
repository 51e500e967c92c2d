package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-cms-ui/internal/commands"
	"github.com/goliatone/go-cms-ui/internal/logging"
	"github.com/goliatone/go-cms-ui/internal/uistate"
	"github.com/goliatone/go-cms-ui/internal/workspaces"
	"github.com/goliatone/go-cms-ui/pkg/interfaces"
	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
)

// ErrUnknownAction is returned when no slice owns an action type.
var ErrUnknownAction = errors.New("store: unknown action type")

// Listener receives the state produced by each dispatched action.
type Listener func(state RootState, action command.Message)

// Dispatcher is the write side of the store.
type Dispatcher interface {
	Dispatch(ctx context.Context, action command.Message) error
}

type Option func(*Store)

func WithLogger(logger interfaces.Logger) Option {
	return func(s *Store) {
		s.logger = logging.Ensure(logger)
	}
}

// WithInitialState replaces the default state tree.
func WithInitialState(state RootState) Option {
	return func(s *Store) {
		s.state = state.Clone()
	}
}

// WithTimeout bounds the execution of a single dispatch.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		s.timeout = timeout
	}
}

// Store owns the state tree. Reducers run under a lock; listeners run after
// it is released, in subscription order. Snapshots reach listeners in the
// order they were reduced, so a listener must not dispatch synchronously.
type Store struct {
	mu        sync.Mutex
	state     RootState
	listeners []subscription
	nextID    int
	seq       uint64

	order     sync.Mutex
	turn      *sync.Cond
	delivered uint64

	logger  interfaces.Logger
	timeout time.Duration
	handler *commands.Handler[command.Message]
}

type subscription struct {
	id int
	fn Listener
}

var _ Dispatcher = (*Store)(nil)

func New(opts ...Option) *Store {
	s := &Store{
		state:   DefaultState(),
		logger:  logging.NoOp(),
		timeout: commands.DefaultTimeout,
	}
	s.turn = sync.NewCond(&s.order)
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.handler = commands.NewHandler(s.apply,
		commands.WithLogger[command.Message](s.logger),
		commands.WithOperation[command.Message]("store.dispatch"),
		commands.WithTimeout[command.Message](s.timeout),
		commands.WithTelemetry(commands.LogTelemetry[command.Message](s.logger)),
	)
	return s
}

// State returns a snapshot of the current state.
func (s *Store) State() RootState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch validates action and applies it to the state tree. Invalid
// actions leave the state untouched.
func (s *Store) Dispatch(ctx context.Context, action command.Message) error {
	if action == nil {
		return fmt.Errorf("store: nil action")
	}
	return s.handler.Execute(ctx, action)
}

// Subscribe registers fn and returns a function removing it again.
func (s *Store) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) apply(ctx context.Context, action command.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	s.seq++
	seq := s.seq
	snapshot := s.state
	listeners := append([]subscription(nil), s.listeners...)
	s.mu.Unlock()

	s.waitTurn(seq)
	defer s.finishTurn(seq)
	for _, sub := range listeners {
		sub.fn(snapshot.Clone(), action)
	}
	return nil
}

// waitTurn blocks until every snapshot reduced before seq was delivered.
func (s *Store) waitTurn(seq uint64) {
	s.order.Lock()
	defer s.order.Unlock()
	for s.delivered != seq-1 {
		s.turn.Wait()
	}
}

func (s *Store) finishTurn(seq uint64) {
	s.order.Lock()
	s.delivered = seq
	s.order.Unlock()
	s.turn.Broadcast()
}

// DecodeAction builds an action of any slice from its wire form.
func DecodeAction(actionType string, payload json.RawMessage) (command.Message, error) {
	action, err := workspaces.DecodeAction(actionType, payload)
	if err == nil {
		return action, nil
	}
	if !errors.Is(err, workspaces.ErrUnknownAction) {
		return nil, err
	}
	action, err = uistate.DecodeAction(actionType, payload)
	if err == nil {
		return action, nil
	}
	if !errors.Is(err, uistate.ErrUnknownAction) {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAction, actionType)
}

// Bind subscribes the store to actions of type T published through the
// go-command dispatcher.
func Bind[T command.Message](s *Store) func() {
	handler := commands.NewHandler(func(ctx context.Context, action T) error {
		return s.Dispatch(ctx, action)
	},
		commands.WithLogger[T](s.logger),
		commands.WithOperation[T]("store.bind"),
		commands.WithTimeout[T](s.timeout),
	)
	sub := dispatcher.SubscribeCommand(handler)
	return sub.Unsubscribe
}

// BindDispatcher subscribes the store to every action it knows and returns
// a function that removes all subscriptions.
func (s *Store) BindDispatcher() func() {
	unsubscribers := []func(){
		Bind[workspaces.InitAction](s),
		Bind[workspaces.UpdateAction](s),
		Bind[workspaces.PublishStartedAction](s),
		Bind[workspaces.PublishFinishedAction](s),
		Bind[workspaces.DiscardStartedAction](s),
		Bind[workspaces.DiscardAbortedAction](s),
		Bind[workspaces.DiscardConfirmedAction](s),
		Bind[workspaces.DiscardFinishedAction](s),
		Bind[workspaces.ChangeBaseWorkspaceAction](s),
		Bind[workspaces.RebaseWorkspaceAction](s),
		Bind[uistate.OpenSyncWorkspaceModalAction](s),
		Bind[uistate.CloseSyncWorkspaceModalAction](s),
		Bind[uistate.StartSavingAction](s),
		Bind[uistate.FinishSavingAction](s),
		Bind[uistate.SetDocumentNodeAction](s),
	}
	return func() {
		for _, unsubscribe := range unsubscribers {
			unsubscribe()
		}
	}
}
