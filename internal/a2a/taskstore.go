package a2a

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// NewTaskID generates a random UUID v4 string.
func NewTaskID() string {
	return uuid.NewString()
}

// TaskStore is a concurrency-safe in-memory task table. Tasks are stored in a
// map keyed by ID with a separate slice maintaining insertion order for
// deterministic listing and pagination. Tasks are never evicted.
type TaskStore struct {
	mu       sync.RWMutex
	tasks    map[string]*Task
	orderIDs []string // insertion-order task IDs
}

// NewTaskStore returns an initialized TaskStore ready for use.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks:    make(map[string]*Task),
		orderIDs: make([]string, 0),
	}
}

// Create stores a copy of task. It returns an error if a task with the same
// ID already exists.
func (s *TaskStore) Create(task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return fmt.Errorf("task %q already exists", task.ID)
	}
	s.tasks[task.ID] = deepCopyTask(&task)
	s.orderIDs = append(s.orderIDs, task.ID)
	return nil
}

// Get returns a deep copy of the task with the given ID, or a task-not-found
// *Error.
func (s *TaskStore) Get(id string) (*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, NewTaskNotFoundError(id)
	}
	return deepCopyTask(t), nil
}

// Update applies fn to the stored task under the write lock and returns a
// deep copy of the result. Mutations made by fn are applied in place.
func (s *TaskStore) Update(id string, fn func(*Task)) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, NewTaskNotFoundError(id)
	}
	fn(t)
	return deepCopyTask(t), nil
}

// Len returns the number of stored tasks.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orderIDs)
}

// List returns tasks matching the filter criteria in insertion order.
//
// Filtering:
//   - If ContextID is non-empty, only tasks with that context ID are included.
//   - If State is non-empty, only tasks in that state are included.
//
// Pagination:
//   - PageToken is the ID of the last task from the previous page; results
//     start after that task in insertion order.
//   - PageSize <= 0 means return all matching tasks.
func (s *TaskStore) List(filter ListTasksRequest) (*ListTasksResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	startIdx := 0
	if filter.PageToken != "" {
		found := false
		for i, id := range s.orderIDs {
			if id == filter.PageToken {
				startIdx = i + 1
				found = true
				break
			}
		}
		if !found {
			return nil, NewInvalidParamsError(fmt.Sprintf("unknown page token %q", filter.PageToken))
		}
	}

	totalSize := 0
	matched := []Task{}
	var nextPageToken string
	for i, id := range s.orderIDs {
		t := s.tasks[id]
		if !matchesFilter(t, filter) {
			continue
		}
		totalSize++
		if i < startIdx || nextPageToken != "" {
			continue
		}
		if filter.PageSize > 0 && len(matched) == filter.PageSize {
			nextPageToken = matched[len(matched)-1].ID
			continue
		}
		matched = append(matched, *deepCopyTask(t))
	}

	return &ListTasksResponse{
		Tasks:         matched,
		TotalSize:     totalSize,
		NextPageToken: nextPageToken,
	}, nil
}

// matchesFilter returns true if the task passes the context ID and state
// filters specified in the request.
func matchesFilter(t *Task, filter ListTasksRequest) bool {
	if filter.ContextID != "" && t.ContextID != filter.ContextID {
		return false
	}
	if filter.State != "" && t.State != filter.State {
		return false
	}
	return true
}

// deepCopyTask returns a new Task that shares no slices with src.
func deepCopyTask(src *Task) *Task {
	dst := *src

	if src.Messages != nil {
		dst.Messages = make([]Message, len(src.Messages))
		for i, m := range src.Messages {
			dst.Messages[i] = deepCopyMessage(m)
		}
	}

	return &dst
}

// deepCopyMessage returns a deep copy of a Message.
func deepCopyMessage(src Message) Message {
	dst := src

	if src.Parts != nil {
		dst.Parts = make([]Part, len(src.Parts))
		for i, p := range src.Parts {
			dst.Parts[i] = deepCopyPart(p)
		}
	}
	dst.Metadata = copyRaw(src.Metadata)
	dst.raw = copyRaw(src.raw)

	return dst
}

// deepCopyPart returns a deep copy of a Part.
func deepCopyPart(src Part) Part {
	dst := src

	if src.Raw != nil {
		dst.Raw = make([]byte, len(src.Raw))
		copy(dst.Raw, src.Raw)
	}
	dst.Data = copyRaw(src.Data)
	dst.Metadata = copyRaw(src.Metadata)
	dst.raw = copyRaw(src.raw)

	return dst
}

func copyRaw(src json.RawMessage) json.RawMessage {
	if src == nil {
		return nil
	}
	dst := make(json.RawMessage, len(src))
	copy(dst, src)
	return dst
}
