package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/sheetwork/pkg/ingest"
	"github.com/vanderheijden86/sheetwork/pkg/model"
	"github.com/vanderheijden86/sheetwork/pkg/testutil"
)

// seqIDs returns a deterministic id generator: id-0, id-1, ...
func seqIDs() func() string {
	n := 0
	return func() string {
		id := fmt.Sprintf("id-%d", n)
		n++
		return id
	}
}

// fixtureLoad returns a LoadFunc serving the deterministic testutil tree.
func fixtureLoad() LoadFunc {
	g := testutil.NewDefault()
	return func() (model.Sheet, []model.Topic, error) {
		return g.Sheet(), g.Topics(), nil
	}
}

// newTestStore builds an initialized store with a manual scheduler so tests
// control when Reset's second phase runs.
func newTestStore(t *testing.T) (*Store, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	s := New(fixtureLoad(),
		WithScheduler(sched.schedule),
		WithIDGenerator(seqIDs()),
	)
	require.NoError(t, s.Init())
	return s, sched
}

// manualScheduler queues deferred work instead of spawning goroutines.
type manualScheduler struct {
	mu    sync.Mutex
	queue []func()
}

func (m *manualScheduler) schedule(fn func()) {
	m.mu.Lock()
	m.queue = append(m.queue, fn)
	m.mu.Unlock()
}

func (m *manualScheduler) drain() int {
	m.mu.Lock()
	queue := m.queue
	m.queue = nil
	m.mu.Unlock()
	for _, fn := range queue {
		fn()
	}
	return len(queue)
}

// memGateway records every saved snapshot.
type memGateway struct {
	mu     sync.Mutex
	saves  []model.State
	failed error
	done   chan struct{}
}

func newMemGateway(capacity int) *memGateway {
	return &memGateway{done: make(chan struct{}, capacity)}
}

func (g *memGateway) Save(st model.State) error {
	g.mu.Lock()
	g.saves = append(g.saves, st)
	err := g.failed
	g.mu.Unlock()
	g.done <- struct{}{}
	return err
}

func (g *memGateway) last(t *testing.T) model.State {
	t.Helper()
	<-g.done
	g.mu.Lock()
	defer g.mu.Unlock()
	require.NotEmpty(t, g.saves)
	return g.saves[len(g.saves)-1]
}

func TestInit_LoadsTree(t *testing.T) {
	s, _ := newTestStore(t)

	assert.NoError(t, s.Err())
	assert.False(t, s.Loading())
	assert.Len(t, s.Topics(), 3)
	assert.Equal(t, "Generated Sheet", s.Sheet().Name)
}

func TestInit_LoadFailure(t *testing.T) {
	loadErr := &ingest.DataFormatError{Reason: "missing sheet record"}
	s := New(func() (model.Sheet, []model.Topic, error) {
		return model.Sheet{}, nil, loadErr
	})

	err := s.Init()
	require.Error(t, err)

	var fe *ingest.DataFormatError
	assert.ErrorAs(t, s.Err(), &fe)
	assert.Empty(t, s.Topics())
	assert.False(t, s.Loading())
}

func TestReset_TwoPhase(t *testing.T) {
	s, sched := newTestStore(t)
	require.NotEmpty(t, s.Topics())

	s.ToggleTopicExpanded("test-t0")
	require.True(t, s.TopicExpanded("test-t0"))

	s.Reset()

	// Phase one is synchronous: empty tree, loading, cleared expansion.
	assert.Empty(t, s.Topics(), "tree must be cleared before Reset returns")
	assert.True(t, s.Loading())
	assert.False(t, s.TopicExpanded("test-t0"))

	// Phase two runs only via the scheduler.
	require.Equal(t, 1, sched.drain())
	assert.False(t, s.Loading())
	assert.Len(t, s.Topics(), 3)
}

func TestReset_SubscriberSeesLoadingFirst(t *testing.T) {
	s, sched := newTestStore(t)

	var states []bool
	s.Subscribe(func() {
		states = append(states, s.Loading())
	})

	s.Reset()
	sched.drain()

	require.GreaterOrEqual(t, len(states), 2)
	assert.True(t, states[0], "first notification must observe loading")
	assert.False(t, states[len(states)-1], "final notification must observe loaded")
}

func TestRestore_SeedsFromSnapshot(t *testing.T) {
	s := New(fixtureLoad())

	st := testutil.NewDefault().State()
	st.ExpandedTopics["test-t0"] = true
	st.Theme = "light"
	st.Loading = true // must not survive

	s.Restore(st)

	assert.False(t, s.Loading())
	assert.True(t, s.TopicExpanded("test-t0"))
	assert.Equal(t, "light", s.Theme())
	assert.Len(t, s.Topics(), 3)
}

func TestSnapshot_IsDeepCopyWithLoadingFalse(t *testing.T) {
	s, _ := newTestStore(t)

	snap := s.Snapshot()
	assert.False(t, snap.Loading)

	snap.Topics[0].Name = "mutated"
	assert.NotEqual(t, "mutated", s.Topics()[0].Name, "snapshot must not alias store state")
}

func TestPersist_FireAndForget(t *testing.T) {
	gw := newMemGateway(8)
	s := New(fixtureLoad(), WithGateway(gw), WithIDGenerator(seqIDs()))
	require.NoError(t, s.Init())
	gw.last(t) // initial load persists once

	s.AddTopic("Strings")

	saved := gw.last(t)
	assert.False(t, saved.Loading, "persisted state must never be loading")
	assert.Len(t, saved.Topics, 4)
}

func TestPersist_FailureDoesNotAffectState(t *testing.T) {
	gw := newMemGateway(8)
	gw.failed = errors.New("disk full")
	s := New(fixtureLoad(), WithGateway(gw), WithIDGenerator(seqIDs()))
	require.NoError(t, s.Init())
	gw.last(t)

	s.AddTopic("Strings")
	gw.last(t)

	// The mutation is still visible even though the save failed.
	assert.Len(t, s.Topics(), 4)
	assert.NoError(t, s.Err())
}

func TestSetTheme(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetTheme("light")
	assert.Equal(t, "light", s.Theme())
}

func TestToggleExpansion(t *testing.T) {
	s, _ := newTestStore(t)

	assert.False(t, s.TopicExpanded("test-t0"))
	s.ToggleTopicExpanded("test-t0")
	assert.True(t, s.TopicExpanded("test-t0"))
	s.ToggleTopicExpanded("test-t0")
	assert.False(t, s.TopicExpanded("test-t0"))

	s.ToggleSubtopicExpanded("test-t0-s1")
	assert.True(t, s.SubtopicExpanded("test-t0-s1"))
}

func TestSubscribe_NotifiedOnMutation(t *testing.T) {
	s, _ := newTestStore(t)

	calls := 0
	s.Subscribe(func() { calls++ })

	s.AddTopic("Strings")
	assert.Equal(t, 1, calls)

	// Silent no-op must not notify.
	s.AddTopic("   ")
	assert.Equal(t, 1, calls)
}
