// Package topk provides a bounded top-K selector over scored values.
//
// The selector keeps the K best-scored values seen so far in a size-K
// min-heap keyed by score: the heap root is the worst retained value and is
// replaced whenever a better candidate arrives. Selecting the top K of N
// values therefore costs O(N log K) and never materialises a sorted copy of
// the full input.
package topk

import (
	"container/heap"
	"sort"
)

// Scored pairs a value with the score it competes on.
type Scored[T any] struct {
	// Score ranks the value; higher is better.
	Score float64

	// Value is the opaque payload.
	Value T
}

type minHeap[T any] []Scored[T]

func (h minHeap[T]) Len() int           { return len(h) }
func (h minHeap[T]) Less(i, j int) bool { return h[i].Score < h[j].Score }
func (h minHeap[T]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *minHeap[T]) Push(x any) {
	*h = append(*h, x.(Scored[T]))
}

func (h *minHeap[T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Selector accumulates scored values and retains the K best.
// The zero value is not usable; construct with New.
type Selector[T any] struct {
	k    int
	heap minHeap[T]
}

// New creates a selector retaining the k best values. k <= 0 retains nothing.
func New[T any](k int) *Selector[T] {
	s := &Selector[T]{k: k}
	if k > 0 {
		s.heap = make(minHeap[T], 0, k)
	}
	return s
}

// Offer submits a candidate. It is kept if the selector is not yet full or
// if its score beats the current minimum, which it then evicts.
func (s *Selector[T]) Offer(score float64, value T) {
	if s.k <= 0 {
		return
	}
	if len(s.heap) < s.k {
		heap.Push(&s.heap, Scored[T]{Score: score, Value: value})
		return
	}
	if score > s.heap[0].Score {
		s.heap[0] = Scored[T]{Score: score, Value: value}
		heap.Fix(&s.heap, 0)
	}
}

// Len returns the number of values currently retained.
func (s *Selector[T]) Len() int {
	return len(s.heap)
}

// Results returns the retained values sorted descending by score.
// Only the final <= k values are sorted, never the full input.
func (s *Selector[T]) Results() []Scored[T] {
	out := make([]Scored[T], len(s.heap))
	copy(out, s.heap)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
