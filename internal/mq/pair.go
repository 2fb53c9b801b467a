// Package mq implements the MultiQueue: a relaxed concurrent priority
// queue built from an array of try-locked sequential internal priority
// queues (IPQs), accessed through per-worker handles.
//
// The queue trades strict priority order for contention tolerance: a
// successful TryPop returns an element that was in the queue at some point
// during the call, with a key close to but not necessarily equal to the
// global minimum. Push never fails. See Handle for the per-worker access
// object and MultiQueue for the shared structure.
package mq

import "math"

// Key is the priority of a queued element. Lower keys pop first, modulo
// the queue's relaxed ordering guarantee.
type Key = uint64

// Value is the payload carried alongside a Key.
type Value = uint64

// EmptyKey is the sentinel stored in an IPQ's top-key cache when the heap
// is empty. It compares strictly greater than every key a caller may push,
// so that top-key comparisons ("is i smaller than j") behave correctly
// even when one or both sides are empty.
const EmptyKey Key = math.MaxUint64

// GuardKey is reserved alongside EmptyKey and must never appear in a user
// workload. It is currently unused by this implementation but reserved so
// that future buffering strategies (e.g. a sentinel-terminated insertion
// ring) have a second value to spend without colliding with EmptyKey.
const GuardKey Key = math.MaxUint64 - 1

// MaxUserKey is the largest key a caller may legally push. Generators that
// draw keys uniformly at random must clamp to this bound to avoid
// colliding with the two reserved sentinels.
const MaxUserKey Key = GuardKey - 1

// Pair is a (key, value) element as stored and returned by the queue.
type Pair struct {
	Key   Key
	Value Value
}

// Less reports whether a has strictly higher priority (smaller key) than
// b. Ties are broken arbitrarily by the heap and are not observable here.
func (a Pair) Less(b Pair) bool {
	return a.Key < b.Key
}
