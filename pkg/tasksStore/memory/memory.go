package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kleros/linguo-engine/pkg/tasksStore"
	"github.com/kleros/linguo-engine/pkg/types"
)

// InMemoryTaskStore implements TaskStore with in-memory maps. It is the
// backend of choice for tests and for short-lived CLI invocations.
type InMemoryTaskStore struct {
	mu               sync.RWMutex
	closed           bool
	tasks            map[string]*tasksStore.TaskRecord
	lastSyncedBlocks map[string]uint64
}

// NewInMemoryTaskStore creates an empty in-memory store.
func NewInMemoryTaskStore() *InMemoryTaskStore {
	return &InMemoryTaskStore{
		tasks:            make(map[string]*tasksStore.TaskRecord),
		lastSyncedBlocks: make(map[string]uint64),
	}
}

func syncCursorKey(contract common.Address) string {
	return strings.ToLower(contract.Hex())
}

// UpsertTask saves or replaces a snapshot.
func (s *InMemoryTaskStore) UpsertTask(ctx context.Context, task *types.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return tasksStore.ErrStoreClosed
	}
	if task == nil {
		return fmt.Errorf("%w: task is nil", tasksStore.ErrInvalidTask)
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", tasksStore.ErrInvalidTask, err)
	}

	now := time.Now()
	if existing, ok := s.tasks[task.ID]; ok {
		existing.Task = task
		existing.UpdatedAt = now
		return nil
	}
	s.tasks[task.ID] = &tasksStore.TaskRecord{
		Task:      task,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

// GetTask retrieves a snapshot by id.
func (s *InMemoryTaskStore) GetTask(ctx context.Context, taskID string) (*types.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, tasksStore.ErrStoreClosed
	}
	record, ok := s.tasks[taskID]
	if !ok {
		return nil, tasksStore.ErrNotFound
	}
	return record.Task, nil
}

// ListTasks returns every stored snapshot in unspecified order.
func (s *InMemoryTaskStore) ListTasks(ctx context.Context) ([]*types.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, tasksStore.ErrStoreClosed
	}
	tasks := make([]*types.Task, 0, len(s.tasks))
	for _, record := range s.tasks {
		tasks = append(tasks, record.Task)
	}
	return tasks, nil
}

// DeleteTask removes a snapshot.
func (s *InMemoryTaskStore) DeleteTask(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return tasksStore.ErrStoreClosed
	}
	if _, ok := s.tasks[taskID]; !ok {
		return tasksStore.ErrNotFound
	}
	delete(s.tasks, taskID)
	return nil
}

// GetLastSyncedBlock returns the sync cursor for a contract.
func (s *InMemoryTaskStore) GetLastSyncedBlock(ctx context.Context, contract common.Address) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, tasksStore.ErrStoreClosed
	}
	blockNum, ok := s.lastSyncedBlocks[syncCursorKey(contract)]
	if !ok {
		return 0, tasksStore.ErrNotFound
	}
	return blockNum, nil
}

// SetLastSyncedBlock advances the sync cursor for a contract.
func (s *InMemoryTaskStore) SetLastSyncedBlock(ctx context.Context, contract common.Address, blockNumber uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return tasksStore.ErrStoreClosed
	}
	s.lastSyncedBlocks[syncCursorKey(contract)] = blockNumber
	return nil
}

// Close marks the store closed; all further calls fail with ErrStoreClosed.
func (s *InMemoryTaskStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
