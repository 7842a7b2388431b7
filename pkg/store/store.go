// Package store owns the canonical in-memory sheet tree and exposes the
// mutator and query surface consumed by the UI layer.
//
// A Store is an explicitly constructed instance: the composition root
// creates one and hands it (or a narrower slice of it) to consumers. Every
// mutator either fully applies its effect or is a documented silent no-op;
// the only error that ever crosses the store boundary is the fatal ingest
// format failure surfaced through Init and Reset.
//
// Mutators follow a copy-on-write discipline: every ancestor of a mutated
// entity is replaced with a fresh value, so read-side consumers that diff
// by reference observe each update. Slices handed out by query methods are
// shared with the store and must be treated as immutable.
package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/vanderheijden86/sheetwork/pkg/debug"
	"github.com/vanderheijden86/sheetwork/pkg/model"
)

// LoadFunc produces the sheet and tree on startup and on reset. A returned
// error (typically an ingest.DataFormatError) puts the store into its error
// state with an empty tree.
type LoadFunc func() (model.Sheet, []model.Topic, error)

// Gateway persists the current state after every mutation. Saves are
// fire-and-forget: a mutation's visible effect is immediate and independent
// of whether the underlying save has completed.
type Gateway interface {
	Save(model.State) error
}

// Store holds the canonical tree. The data model is single-writer and
// event-driven, but the snapshot watcher and the async saver run off the
// caller's goroutine in this program, so access is guarded by a mutex.
type Store struct {
	mu       sync.RWMutex
	state    model.State
	loadErr  error
	load     LoadFunc
	gateway  Gateway
	schedule func(func())
	newID    func() string
	subs     []func()
}

// Option configures a Store.
type Option func(*Store)

// WithGateway sets the persistence gateway written after every mutation.
func WithGateway(g Gateway) Option {
	return func(s *Store) { s.gateway = g }
}

// WithScheduler sets the deferral mechanism used by Reset's second phase.
// The function must run its argument after the current call returns; the
// default starts a fresh goroutine. Tests inject a manual queue.
func WithScheduler(fn func(func())) Option {
	return func(s *Store) { s.schedule = fn }
}

// WithIDGenerator overrides id generation for add mutators.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithTheme sets the initial UI theme carried in persisted state.
func WithTheme(theme string) Option {
	return func(s *Store) { s.state.Theme = theme }
}

// New creates a Store that populates itself via load. Call Init to perform
// the initial synchronous load.
func New(load LoadFunc, opts ...Option) *Store {
	s := &Store{
		load:     load,
		newID:    uuid.NewString,
		schedule: func(fn func()) { go fn() },
		state: model.State{
			ExpandedTopics:    make(map[string]bool),
			ExpandedSubtopics: make(map[string]bool),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init runs the initial load synchronously. On failure the store enters an
// explicit error state: Err reports the load error and the tree stays empty.
func (s *Store) Init() error {
	s.mu.Lock()
	s.state.Loading = true
	s.mu.Unlock()
	s.notify()
	return s.runLoad()
}

// Restore seeds the store from a previously persisted state instead of
// running ingest. Used at startup when a snapshot exists.
func (s *Store) Restore(st model.State) {
	s.mu.Lock()
	s.state = st.Clone()
	s.state.Loading = false
	if s.state.ExpandedTopics == nil {
		s.state.ExpandedTopics = make(map[string]bool)
	}
	if s.state.ExpandedSubtopics == nil {
		s.state.ExpandedSubtopics = make(map[string]bool)
	}
	s.loadErr = nil
	s.mu.Unlock()
	s.notify()
}

// Reset discards the entire tree and re-runs ingest.
//
// The operation is two-phase by contract: phase one clears the tree and
// marks the store loading before Reset returns, so subscribers observe the
// empty/loading state first; phase two re-invokes the load function via the
// configured scheduler, strictly after the current synchronous work.
// Callers must not assume the re-ingest has happened when Reset returns.
func (s *Store) Reset() {
	s.mu.Lock()
	s.state.Topics = nil
	s.state.ExpandedTopics = make(map[string]bool)
	s.state.ExpandedSubtopics = make(map[string]bool)
	s.state.Loading = true
	s.loadErr = nil
	s.mu.Unlock()
	s.notify()

	s.schedule(func() {
		if err := s.runLoad(); err != nil {
			debug.Log("store: reset reload failed: %v", err)
		}
	})
}

func (s *Store) runLoad() error {
	sheet, topics, err := s.load()

	s.mu.Lock()
	s.state.Loading = false
	if err != nil {
		s.loadErr = err
		s.state.Topics = nil
		s.mu.Unlock()
		s.notify()
		return err
	}
	s.loadErr = nil
	s.state.Sheet = sheet
	s.state.Topics = topics
	s.mu.Unlock()

	s.notify()
	s.persist()
	return nil
}

// Subscribe registers a change callback invoked after every state change.
// Callbacks run synchronously on the mutating goroutine and must not call
// back into mutators.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Err returns the load error, if the last load failed.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Loading reports whether a load or reset re-ingest is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Loading
}

// Snapshot returns a deep copy of the current state with Loading forced to
// false, which is the persisted-state contract.
func (s *Store) Snapshot() model.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.state.Clone()
	snap.Loading = false
	return snap
}

// Sheet returns the current sheet metadata.
func (s *Store) Sheet() model.Sheet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Sheet
}

// Topics returns the current topic forest. The returned slice is shared
// with the store and must not be mutated by callers.
func (s *Store) Topics() []model.Topic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Topics
}

// Theme returns the persisted UI theme.
func (s *Store) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Theme
}

// SetTheme updates the persisted UI theme.
func (s *Store) SetTheme(theme string) {
	s.mu.Lock()
	s.state.Theme = theme
	s.mu.Unlock()
	s.changed()
}

// TopicExpanded reports the UI expansion flag for a topic id.
func (s *Store) TopicExpanded(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ExpandedTopics[id]
}

// ToggleTopicExpanded flips the UI expansion flag for a topic id.
func (s *Store) ToggleTopicExpanded(id string) {
	s.mu.Lock()
	s.state.ExpandedTopics[id] = !s.state.ExpandedTopics[id]
	s.mu.Unlock()
	s.changed()
}

// SubtopicExpanded reports the UI expansion flag for a subtopic id.
func (s *Store) SubtopicExpanded(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ExpandedSubtopics[id]
}

// ToggleSubtopicExpanded flips the UI expansion flag for a subtopic id.
func (s *Store) ToggleSubtopicExpanded(id string) {
	s.mu.Lock()
	s.state.ExpandedSubtopics[id] = !s.state.ExpandedSubtopics[id]
	s.mu.Unlock()
	s.changed()
}

// changed notifies subscribers and kicks off a fire-and-forget save.
func (s *Store) changed() {
	s.notify()
	s.persist()
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}

// persist writes the current snapshot through the gateway on a fresh
// goroutine. Failures are logged, never surfaced: durable storage lag must
// not block or fail a mutation.
func (s *Store) persist() {
	if s.gateway == nil {
		return
	}
	snap := s.Snapshot()
	go func() {
		if err := s.gateway.Save(snap); err != nil {
			debug.Log("store: save failed: %v", err)
		}
	}()
}
