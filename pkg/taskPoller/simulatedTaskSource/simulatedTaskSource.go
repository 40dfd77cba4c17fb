package simulatedTaskSource

import (
	"context"
	"sync"

	"github.com/kleros/linguo-engine/pkg/types"
)

// SimulatedTaskSource is an in-memory TaskSource fed by tests and demos.
// Each pushed snapshot is tagged with a monotonically increasing block
// number so cursor-based fetching behaves like a real indexer.
type SimulatedTaskSource struct {
	mu          sync.Mutex
	latestBlock uint64
	entries     []entry
}

type entry struct {
	block uint64
	task  *types.Task
}

func NewSimulatedTaskSource() *SimulatedTaskSource {
	return &SimulatedTaskSource{}
}

// PushTask records a snapshot at the next block.
func (s *SimulatedTaskSource) PushTask(task *types.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latestBlock++
	t := *task
	t.SourceBlockNumber = s.latestBlock
	s.entries = append(s.entries, entry{block: s.latestBlock, task: &t})
}

// FetchTasks returns snapshots recorded after fromBlock.
func (s *SimulatedTaskSource) FetchTasks(ctx context.Context, fromBlock uint64) ([]*types.Task, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tasks []*types.Task
	for _, e := range s.entries {
		if e.block > fromBlock {
			tasks = append(tasks, e.task)
		}
	}
	return tasks, s.latestBlock, nil
}
