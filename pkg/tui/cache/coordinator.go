// Package cache keeps the optimistic in-memory copy of a day's exercises and
// coordinates writes against the backing store. Edits apply to the local copy
// immediately; persistence happens through a serialized write queue so the
// store always sees operations in the order the user issued them.
package cache

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/repbook/repbook/pkg/program"
	"github.com/repbook/repbook/pkg/tui/events"
	"github.com/repbook/repbook/pkg/tui/grid"
)

// Backend is the slice of the persistence layer the coordinator drives.
// Mutating calls return the authoritative row set for the day so optimistic
// state can be reconciled, temp identities included.
type Backend interface {
	Exercises(ctx context.Context, dayID string) ([]program.Exercise, error)
	UpsertExercise(ctx context.Context, ex program.Exercise) ([]program.Exercise, error)
	InsertExercise(ctx context.Context, ex program.Exercise) ([]program.Exercise, error)
	DeleteExercises(ctx context.Context, dayID string, ids []string) ([]program.Exercise, error)
	ReorderExercises(ctx context.Context, dayID string, ids []string) ([]program.Exercise, error)
}

// LoadedMsg delivers a fresh read of a day's exercises.
type LoadedMsg struct {
	Component events.ComponentID
	DayID     string
	Rows      []program.Exercise
	Err       error
}

// WriteDoneMsg delivers the outcome of one queued write.
type WriteDoneMsg struct {
	Component events.ComponentID
	Seq       uint64
	Rows      []program.Exercise
	Err       error
}

type writeOp struct {
	seq uint64
	run func(ctx context.Context) ([]program.Exercise, error)
}

// Coordinator owns the optimistic exercise list for the selected day. All
// methods are called from the Bubble Tea event loop; the mutex only guards
// against the write commands completing on other goroutines.
type Coordinator struct {
	mu      sync.Mutex
	id      events.ComponentID
	backend Backend

	dayID     string
	exercises []program.Exercise
	// aliases maps temp identities to the real ones the store assigned, so
	// queued writes captured before the remap still target the right row.
	aliases map[string]string

	queue    []writeOp
	inflight bool
	seq      uint64
	applied  uint64
}

// NewCoordinator builds a coordinator over the given backend.
func NewCoordinator(id events.ComponentID, backend Backend) *Coordinator {
	return &Coordinator{id: id, backend: backend, aliases: make(map[string]string)}
}

// Load switches the coordinator to a day and fetches its rows.
func (c *Coordinator) Load(dayID string) tea.Cmd {
	c.mu.Lock()
	c.dayID = dayID
	backend := c.backend
	id := c.id
	c.mu.Unlock()
	return func() tea.Msg {
		rows, err := backend.Exercises(context.Background(), dayID)
		return LoadedMsg{Component: id, DayID: dayID, Rows: rows, Err: err}
	}
}

// HandleLoaded adopts a read result. Reads for a day the user already left,
// and reads that raced with still-pending writes, are discarded: the
// optimistic state is newer than what the store returned.
func (c *Coordinator) HandleLoaded(msg LoadedMsg) tea.Cmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	if msg.Err != nil {
		return events.NoticeCmd(c.id, "load failed: "+msg.Err.Error(), true)
	}
	if msg.DayID != c.dayID || c.inflight || len(c.queue) > 0 {
		return nil
	}
	c.exercises = msg.Rows
	return nil
}

// Exercises returns the optimistic row set.
func (c *Coordinator) Exercises() []program.Exercise {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]program.Exercise, len(c.exercises))
	copy(out, c.exercises)
	return out
}

// GridRows converts the optimistic state into grid rows.
func (c *Coordinator) GridRows() []grid.Row {
	exercises := c.Exercises()
	rows := make([]grid.Row, 0, len(exercises))
	for _, ex := range exercises {
		rows = append(rows, grid.Row{ID: ex.ID, Data: ex.Record()})
	}
	return rows
}

// Pending counts writes that have not completed yet.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.queue)
	if c.inflight {
		n++
	}
	return n
}

// Apply commits grid updates to the optimistic state and queues one upsert
// per touched row. The snapshot written is taken now, so later edits to the
// same row cannot leak into an earlier write.
func (c *Coordinator) Apply(updates []grid.Update) tea.Cmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	touched := make([]string, 0, 1)
	seen := make(map[string]bool)
	for _, u := range updates {
		// updates issued before an identity swap still carry the temp ID
		rowID := c.resolveIDLocked(u.RowID)
		idx := c.indexOfLocked(rowID)
		if idx < 0 {
			continue
		}
		c.exercises[idx].ApplyField(u.Field, u.Value)
		if !seen[rowID] {
			seen[rowID] = true
			touched = append(touched, rowID)
		}
	}

	var cmd tea.Cmd
	for _, rowID := range touched {
		idx := c.indexOfLocked(rowID)
		if idx < 0 {
			continue
		}
		snapshot := c.exercises[idx]
		next := c.enqueueLocked(func(ctx context.Context) ([]program.Exercise, error) {
			ex := snapshot
			ex.ID = c.resolveID(ex.ID)
			return c.backend.UpsertExercise(ctx, ex)
		})
		if next != nil {
			cmd = next
		}
	}
	return cmd
}

// InsertRow appends a new exercise with a temporary identity and queues the
// insert. The caller reads GridRows afterwards to pick up the new row.
func (c *Coordinator) InsertRow() tea.Cmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	ex := program.Exercise{
		ID:    program.NewTempID(),
		DayID: c.dayID,
		Order: program.NextExerciseOrder(c.exercises),
		Kind:  program.KindStrength,
	}
	c.exercises = append(c.exercises, ex)
	snapshot := ex
	return c.enqueueLocked(func(ctx context.Context) ([]program.Exercise, error) {
		return c.backend.InsertExercise(ctx, snapshot)
	})
}

// DeleteRows removes rows optimistically, renumbers the survivors and queues
// the delete.
func (c *Coordinator) DeleteRows(ids []string) tea.Cmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := c.exercises[:0:0]
	for _, ex := range c.exercises {
		if !drop[ex.ID] {
			kept = append(kept, ex)
		}
	}
	c.exercises = kept
	program.RenumberExercises(c.exercises)

	dayID := c.dayID
	idsCopy := append([]string(nil), ids...)
	return c.enqueueLocked(func(ctx context.Context) ([]program.Exercise, error) {
		return c.backend.DeleteExercises(ctx, dayID, c.resolveIDs(idsCopy))
	})
}

// MoveRow relocates a row and queues the reorder with the resulting full
// identity sequence.
func (c *Coordinator) MoveRow(from, to int) tea.Cmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	program.MoveExercise(c.exercises, from, to)
	order := make([]string, 0, len(c.exercises))
	for _, ex := range c.exercises {
		order = append(order, ex.ID)
	}
	dayID := c.dayID
	return c.enqueueLocked(func(ctx context.Context) ([]program.Exercise, error) {
		return c.backend.ReorderExercises(ctx, dayID, c.resolveIDs(order))
	})
}

// HandleWriteDone processes a completed write: adopt or reconcile the
// authoritative rows, surface failures, and start the next queued write.
// Responses older than one already applied are discarded.
func (c *Coordinator) HandleWriteDone(msg WriteDoneMsg) tea.Cmd {
	c.mu.Lock()
	if msg.Seq < c.applied {
		// stale response: drop its rows, but the write slot is still done
		c.inflight = false
		next := c.startNextLocked()
		c.mu.Unlock()
		return next
	}
	c.applied = msg.Seq
	c.inflight = false

	var cmds []tea.Cmd
	if msg.Err != nil {
		// optimistic state may now be wrong; refetch once the queue drains
		cmds = append(cmds, events.NoticeCmd(c.id, "save failed: "+msg.Err.Error(), true))
		if len(c.queue) == 0 {
			dayID := c.dayID
			backend := c.backend
			id := c.id
			cmds = append(cmds, func() tea.Msg {
				rows, err := backend.Exercises(context.Background(), dayID)
				return LoadedMsg{Component: id, DayID: dayID, Rows: rows, Err: err}
			})
		}
	} else if len(c.queue) == 0 {
		c.adoptIdentitiesLocked(msg.Rows)
		c.exercises = msg.Rows
	} else {
		c.adoptIdentitiesLocked(msg.Rows)
	}

	if next := c.startNextLocked(); next != nil {
		cmds = append(cmds, next)
	}
	pending := len(c.queue)
	if c.inflight {
		pending++
	}
	c.mu.Unlock()

	cmds = append(cmds, events.SyncStateCmd(c.id, pending))
	return tea.Batch(cmds...)
}

// adoptIdentitiesLocked maps temp identities onto the authoritative rows by
// order position, so queued writes that reference a temp row keep pointing
// at the same logical exercise. Full adoption waits until the queue drains.
func (c *Coordinator) adoptIdentitiesLocked(authoritative []program.Exercise) {
	byOrder := make(map[int]program.Exercise, len(authoritative))
	for _, ex := range authoritative {
		byOrder[ex.Order] = ex
	}
	for i := range c.exercises {
		if !program.IsTempID(c.exercises[i].ID) {
			continue
		}
		if real, ok := byOrder[c.exercises[i].Order]; ok && !program.IsTempID(real.ID) {
			c.aliases[c.exercises[i].ID] = real.ID
			c.exercises[i].ID = real.ID
		}
	}
}

// resolveID follows the temp->real mapping, if one was recorded.
func (c *Coordinator) resolveID(id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolveIDLocked(id)
}

func (c *Coordinator) resolveIDLocked(id string) string {
	if real, ok := c.aliases[id]; ok {
		return real
	}
	return id
}

func (c *Coordinator) resolveIDs(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = c.resolveID(id)
	}
	return out
}

func (c *Coordinator) indexOfLocked(id string) int {
	for i, ex := range c.exercises {
		if ex.ID == id {
			return i
		}
	}
	return -1
}

// enqueueLocked appends a write and, when nothing is in flight, returns the
// command that issues it. Otherwise the write waits for HandleWriteDone.
func (c *Coordinator) enqueueLocked(run func(ctx context.Context) ([]program.Exercise, error)) tea.Cmd {
	c.seq++
	c.queue = append(c.queue, writeOp{seq: c.seq, run: run})
	if c.inflight {
		return nil
	}
	return c.startNextLocked()
}

func (c *Coordinator) startNextLocked() tea.Cmd {
	if c.inflight || len(c.queue) == 0 {
		return nil
	}
	op := c.queue[0]
	c.queue = c.queue[1:]
	c.inflight = true
	id := c.id
	return func() tea.Msg {
		rows, err := op.run(context.Background())
		return WriteDoneMsg{Component: id, Seq: op.seq, Rows: rows, Err: err}
	}
}
