package pricing

import (
	"math/big"
	"time"

	"github.com/kleros/linguo-engine/pkg/types"
)

// CurrentPrice returns the price of the task at the given instant, in the
// smallest currency unit.
//
// For an open task the price increases linearly from MinPrice at creation to
// MaxPrice at the assignment deadline, clamped to those bounds outside the
// window. Once a task is assigned the price is frozen at the value it had at
// the moment of assignment; the contract does not expose that value in every
// snapshot, so it is recomputed with the same interpolation evaluated at
// LastInteraction.
//
// All arithmetic is big.Int. On-chain amounts can exceed the 64-bit range
// and must never round-trip through floating point.
func CurrentPrice(task *types.Task, now time.Time) *big.Int {
	if task == nil || task.MinPrice == nil || task.MaxPrice == nil {
		return big.NewInt(0)
	}

	at := now
	if task.Status != types.TaskStatusCreated {
		at = task.LastInteraction
	}
	return interpolate(task, at)
}

func interpolate(task *types.Task, at time.Time) *big.Int {
	if !at.After(task.CreatedAt) {
		return new(big.Int).Set(task.MinPrice)
	}
	if !at.Before(task.Deadline) {
		return new(big.Int).Set(task.MaxPrice)
	}

	windowSecs := int64(task.Deadline.Sub(task.CreatedAt) / time.Second)
	if windowSecs <= 0 {
		return new(big.Int).Set(task.MaxPrice)
	}
	elapsedSecs := int64(at.Sub(task.CreatedAt) / time.Second)

	// price = minPrice + (maxPrice - minPrice) * elapsed / window
	spread := new(big.Int).Sub(task.MaxPrice, task.MinPrice)
	spread.Mul(spread, big.NewInt(elapsedSecs))
	spread.Quo(spread, big.NewInt(windowSecs))
	return spread.Add(spread, task.MinPrice)
}

// ComparePricePerWord orders two tasks by their current price per word,
// without ever dividing: a/aw vs b/bw is compared as a*bw vs b*aw so the
// ordering stays exact for arbitrarily large amounts. A task with zero word
// count has no per-word price and sorts below any task that has one.
func ComparePricePerWord(a, b *types.Task, now time.Time) int {
	priceA, priceB := CurrentPrice(a, now), CurrentPrice(b, now)
	wordsA, wordsB := wordCount(a), wordCount(b)

	switch {
	case wordsA == 0 && wordsB == 0:
		return 0
	case wordsA == 0:
		return -1
	case wordsB == 0:
		return 1
	}

	lhs := new(big.Int).Mul(priceA, new(big.Int).SetUint64(wordsB))
	rhs := new(big.Int).Mul(priceB, new(big.Int).SetUint64(wordsA))
	return lhs.Cmp(rhs)
}

func wordCount(task *types.Task) uint64 {
	if task == nil {
		return 0
	}
	return task.WordCount
}
