package util

import "sync/atomic"

// SafeCounter is an int counter safe to use concurrently. Tile workers and
// the generation runner share instances across goroutines.
type SafeCounter struct {
	value int32
}

// NewSafeInt creates a zeroed SafeCounter.
func NewSafeInt() *SafeCounter {
	return &SafeCounter{}
}

// Increment adds one and returns the new value.
func (sc *SafeCounter) Increment() int {
	return int(atomic.AddInt32(&sc.value, 1))
}

// Add adds a delta and returns the new value.
func (sc *SafeCounter) Add(delta int) int {
	return int(atomic.AddInt32(&sc.value, int32(delta)))
}

// Value returns the current value.
func (sc *SafeCounter) Value() int {
	return int(atomic.LoadInt32(&sc.value))
}

// SafeFlag is a bool safe to use concurrently.
type SafeFlag struct {
	value int32
}

// NewSafeBool creates a SafeFlag holding false.
func NewSafeBool() *SafeFlag {
	return &SafeFlag{}
}

// TrySet sets the flag to true if it was false, reporting whether this
// caller won the flag.
func (sf *SafeFlag) TrySet() bool {
	return atomic.CompareAndSwapInt32(&sf.value, 0, 1)
}

// Set stores the given value.
func (sf *SafeFlag) Set(v bool) {
	var n int32
	if v {
		n = 1
	}
	atomic.StoreInt32(&sf.value, n)
}

// Value returns the current value.
func (sf *SafeFlag) Value() bool {
	return atomic.LoadInt32(&sf.value) != 0
}
