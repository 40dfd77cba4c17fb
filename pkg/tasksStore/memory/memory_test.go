package memory_test

import (
	"testing"

	"github.com/kleros/linguo-engine/pkg/tasksStore"
	"github.com/kleros/linguo-engine/pkg/tasksStore/memory"
)

// TestInMemoryTaskStore runs the standard store conformance suite
func TestInMemoryTaskStore(t *testing.T) {
	suite := &tasksStore.TestSuite{
		NewStore: func() (tasksStore.TaskStore, error) {
			return memory.NewInMemoryTaskStore(), nil
		},
	}
	suite.Run(t)
}

// TestInMemorySpecific tests in-memory specific behavior
func TestInMemorySpecific(t *testing.T) {
	t.Run("MultipleInstances", func(t *testing.T) {
		store1 := memory.NewInMemoryTaskStore()
		store2 := memory.NewInMemoryTaskStore()

		if store1 == store2 {
			t.Fatal("NewInMemoryTaskStore should create independent instances")
		}
	})
}
