package utils

import (
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

func TestOrderedSetNoDuplicates(t *testing.T) {
	s := NewOrderedSet()

	added := s.Add("Electronics")
	if !added {
		t.Error("first Add should return true")
	}

	added = s.Add("Electronics")
	if added {
		t.Error("second Add of same key should return false")
	}

	if s.Size() != 1 {
		t.Errorf("size: got %d, want 1", s.Size())
	}
	if !s.Contains("Electronics") || s.Contains("Tools") {
		t.Error("Contains should report only added keys")
	}
}

func TestOrderedSetKeepsInsertionOrder(t *testing.T) {
	s := NewOrderedSet()
	for _, k := range []string{"Tools", "Electronics", "Tools", "Garden"} {
		s.Add(k)
	}

	want := []string{"Tools", "Electronics", "Garden"}
	if got := s.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("keys: got %v, want %v", got, want)
	}
}

func TestOrderedSetConcurrency(t *testing.T) {
	s := NewOrderedSet()
	var added int64

	pool := NewWorkerPool(10, 0)
	for i := 0; i < 100; i++ {
		pool.Submit(func() {
			if s.Add("same") {
				atomic.AddInt64(&added, 1)
			}
		})
	}
	pool.Wait()

	if added != 1 {
		t.Errorf("expected exactly 1 successful add, got %d", added)
	}
}

func TestWorkerPoolRateLimit(t *testing.T) {
	rateLimitMs := 100
	pool := NewWorkerPool(1, rateLimitMs)

	var timestamps []time.Time
	mu := make(chan struct{}, 1)
	mu <- struct{}{}

	for i := 0; i < 3; i++ {
		pool.Submit(func() {
			<-mu
			timestamps = append(timestamps, time.Now())
			mu <- struct{}{}
		})
	}
	pool.Wait()

	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		min := time.Duration(rateLimitMs) * time.Millisecond
		if gap < min {
			t.Errorf("gap between job %d and %d: %v < minimum %v", i-1, i, gap, min)
		}
	}
}

func TestWorkerPoolClampsConcurrency(t *testing.T) {
	pool := NewWorkerPool(0, 0)
	var ran int64
	pool.Submit(func() { atomic.AddInt64(&ran, 1) })
	pool.Wait()

	if ran != 1 {
		t.Errorf("jobs run: got %d, want 1", ran)
	}
}
