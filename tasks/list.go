package tasks

import (
	"context"
	"errors"
	"sync"

	"taskflow-cli/types"
)

// State of the task collection.
type State int

const (
	StateLoading State = iota
	StateLoaded
	StateError
)

// Filter is a pure projection over the loaded collection; it never triggers a
// network call.
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

// ErrMutationInFlight is returned when a second mutation is attempted for a
// task that already has one outstanding.
var ErrMutationInFlight = errors.New("a mutation for this task is already in flight")

// TaskList keeps a local task collection consistent with server-confirmed
// state. Mutations hit the server first; only the authoritative response is
// spliced into the collection, so the view shows the previous state until the
// round trip completes.
type TaskList struct {
	client *Client

	mu       sync.Mutex
	state    State
	tasks    []types.Task
	err      error
	inflight map[string]bool
}

func NewTaskList(client *Client) *TaskList {
	return &TaskList{
		client:   client,
		state:    StateLoading,
		inflight: make(map[string]bool),
	}
}

func (l *TaskList) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the failure that put the list into StateError, if any.
func (l *TaskList) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Tasks returns a copy of the loaded collection.
func (l *TaskList) Tasks() []types.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]types.Task(nil), l.tasks...)
}

// Refresh fetches the task set. It doubles as the retry action when the list
// is in StateError.
func (l *TaskList) Refresh(ctx context.Context) error {
	l.mu.Lock()
	l.state = StateLoading
	l.mu.Unlock()

	fetched, err := l.client.List(ctx, ListOptions{})

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.state = StateError
		l.err = err
		return err
	}
	l.state = StateLoaded
	l.err = nil
	l.tasks = fetched
	return nil
}

// Update sends the patch and splices the server-returned task into the
// collection. The local collection is untouched until the server confirms.
func (l *TaskList) Update(ctx context.Context, id string, data types.UpdateTaskData) (types.Task, error) {
	if err := l.begin(id); err != nil {
		return types.Task{}, err
	}
	defer l.end(id)

	updated, err := l.client.Update(ctx, id, data)
	if err != nil {
		return types.Task{}, err
	}
	l.splice(updated)
	return updated, nil
}

// Toggle flips completion server-side and splices the confirmed task.
func (l *TaskList) Toggle(ctx context.Context, id string) (types.Task, error) {
	if err := l.begin(id); err != nil {
		return types.Task{}, err
	}
	defer l.end(id)

	updated, err := l.client.ToggleCompletion(ctx, id)
	if err != nil {
		return types.Task{}, err
	}
	l.splice(updated)
	return updated, nil
}

// Delete removes the task server-side, then drops it from the collection.
func (l *TaskList) Delete(ctx context.Context, id string) error {
	if err := l.begin(id); err != nil {
		return err
	}
	defer l.end(id)

	if err := l.client.Delete(ctx, id); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i, t := range l.tasks {
		if t.ID == id {
			l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
			break
		}
	}
	return nil
}

// Filter projects the loaded collection by completion state.
func (l *TaskList) Filter(f Filter) []types.Task {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]types.Task, 0, len(l.tasks))
	for _, t := range l.tasks {
		switch f {
		case FilterActive:
			if t.Completed {
				continue
			}
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func (l *TaskList) begin(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inflight[id] {
		return ErrMutationInFlight
	}
	l.inflight[id] = true
	return nil
}

func (l *TaskList) end(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.inflight, id)
}

// splice replaces the entry matching the server task's id. A task the list has
// never seen is left alone; the next Refresh picks it up.
func (l *TaskList) splice(updated types.Task) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, t := range l.tasks {
		if t.ID == updated.ID {
			l.tasks[i] = updated
			return
		}
	}
}
