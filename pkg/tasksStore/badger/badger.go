package badger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	badgerv3 "github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"

	"github.com/kleros/linguo-engine/pkg/tasksStore"
	"github.com/kleros/linguo-engine/pkg/types"
)

// Key prefixes for the different record kinds.
const (
	prefixTask = "task:"
	prefixSync = "sync:"
)

// Config holds the knobs for a BadgerDB-backed store.
type Config struct {
	Dir      string
	InMemory bool
}

// BadgerTaskStore implements TaskStore on BadgerDB, for deployments that
// need the mirrored snapshots to survive restarts.
type BadgerTaskStore struct {
	db       *badgerv3.DB
	mu       sync.RWMutex
	closed   bool
	closeCh  chan struct{}
	gcTicker *time.Ticker
}

// NewBadgerTaskStore opens (or creates) the store at cfg.Dir.
func NewBadgerTaskStore(cfg *Config) (*BadgerTaskStore, error) {
	if cfg == nil {
		return nil, errors.New("badger config is nil")
	}

	opts := badgerv3.DefaultOptions(cfg.Dir)
	opts.Logger = nil // Disable BadgerDB's default logging
	if cfg.InMemory {
		opts.InMemory = true
		opts.Dir = ""
		opts.ValueDir = ""
	}

	db, err := badgerv3.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &BadgerTaskStore{
		db:      db,
		closeCh: make(chan struct{}),
	}
	s.startGC()
	return s, nil
}

// startGC runs value-log garbage collection periodically until Close.
func (s *BadgerTaskStore) startGC() {
	s.gcTicker = time.NewTicker(5 * time.Minute)
	go func() {
		for {
			select {
			case <-s.closeCh:
				return
			case <-s.gcTicker.C:
				_ = s.db.RunValueLogGC(0.5)
			}
		}
	}()
}

func taskKey(taskID string) []byte {
	return []byte(prefixTask + taskID)
}

func syncKey(contract common.Address) []byte {
	return []byte(prefixSync + strings.ToLower(contract.Hex()))
}

func (s *BadgerTaskStore) checkClosed() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return tasksStore.ErrStoreClosed
	}
	return nil
}

// UpsertTask saves or replaces a snapshot.
func (s *BadgerTaskStore) UpsertTask(ctx context.Context, task *types.Task) error {
	if err := s.checkClosed(); err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("%w: task is nil", tasksStore.ErrInvalidTask)
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", tasksStore.ErrInvalidTask, err)
	}

	now := time.Now()
	record := &tasksStore.TaskRecord{
		Task:      task,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return s.db.Update(func(txn *badgerv3.Txn) error {
		// Preserve the original CreatedAt on replacement.
		if item, err := txn.Get(taskKey(task.ID)); err == nil {
			var existing tasksStore.TaskRecord
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &existing)
			}); err == nil {
				record.CreatedAt = existing.CreatedAt
			}
		}

		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal task record: %w", err)
		}
		return txn.Set(taskKey(task.ID), data)
	})
}

// GetTask retrieves a snapshot by id.
func (s *BadgerTaskStore) GetTask(ctx context.Context, taskID string) (*types.Task, error) {
	if err := s.checkClosed(); err != nil {
		return nil, err
	}

	var record tasksStore.TaskRecord
	err := s.db.View(func(txn *badgerv3.Txn) error {
		item, err := txn.Get(taskKey(taskID))
		if err != nil {
			if errors.Is(err, badgerv3.ErrKeyNotFound) {
				return tasksStore.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		return nil, err
	}
	return record.Task, nil
}

// ListTasks returns every stored snapshot in unspecified order.
func (s *BadgerTaskStore) ListTasks(ctx context.Context) ([]*types.Task, error) {
	if err := s.checkClosed(); err != nil {
		return nil, err
	}

	var tasks []*types.Task
	err := s.db.View(func(txn *badgerv3.Txn) error {
		opts := badgerv3.DefaultIteratorOptions
		opts.Prefix = []byte(prefixTask)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var record tasksStore.TaskRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			}); err != nil {
				return err
			}
			tasks = append(tasks, record.Task)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// DeleteTask removes a snapshot.
func (s *BadgerTaskStore) DeleteTask(ctx context.Context, taskID string) error {
	if err := s.checkClosed(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badgerv3.Txn) error {
		if _, err := txn.Get(taskKey(taskID)); err != nil {
			if errors.Is(err, badgerv3.ErrKeyNotFound) {
				return tasksStore.ErrNotFound
			}
			return err
		}
		return txn.Delete(taskKey(taskID))
	})
}

// GetLastSyncedBlock returns the sync cursor for a contract.
func (s *BadgerTaskStore) GetLastSyncedBlock(ctx context.Context, contract common.Address) (uint64, error) {
	if err := s.checkClosed(); err != nil {
		return 0, err
	}

	var blockNumber uint64
	err := s.db.View(func(txn *badgerv3.Txn) error {
		item, err := txn.Get(syncKey(contract))
		if err != nil {
			if errors.Is(err, badgerv3.ErrKeyNotFound) {
				return tasksStore.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("malformed sync cursor value")
			}
			blockNumber = binary.BigEndian.Uint64(val)
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return blockNumber, nil
}

// SetLastSyncedBlock advances the sync cursor for a contract.
func (s *BadgerTaskStore) SetLastSyncedBlock(ctx context.Context, contract common.Address, blockNumber uint64) error {
	if err := s.checkClosed(); err != nil {
		return err
	}

	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, blockNumber)
	return s.db.Update(func(txn *badgerv3.Txn) error {
		return txn.Set(syncKey(contract), val)
	})
}

// Close stops background GC and closes the database.
func (s *BadgerTaskStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.closeCh)
	if s.gcTicker != nil {
		s.gcTicker.Stop()
	}
	return s.db.Close()
}
