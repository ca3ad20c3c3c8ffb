package locks

import (
	"context"
	"reflect"
	"sync"
	"testing"
)

func TestSortedCopy(t *testing.T) {
	got := sortedCopy([]string{"b", "a", "b", "c", "a"})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sortedCopy = %v, want %v", got, want)
	}
}

func TestMemLockerRepeatedKey(t *testing.T) {
	l := NewMemLocker()

	// A duplicated key must not self-deadlock.
	release, err := l.Acquire(context.Background(), "u1", "u1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	release()

	// The key is free again afterwards.
	release, err = l.Acquire(context.Background(), "u1")
	if err != nil {
		t.Fatalf("re-Acquire: %v", err)
	}
	release()
}

func TestMemLockerMutualExclusion(t *testing.T) {
	l := NewMemLocker()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), "shared")
			if err != nil {
				t.Errorf("Acquire: %v", err)
				return
			}
			defer release()
			counter++
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
}

func TestMemLockerPairOrdering(t *testing.T) {
	l := NewMemLocker()

	// Two goroutines locking the same pair in opposite argument order must
	// not deadlock; keys are acquired in sorted order.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			release, _ := l.Acquire(context.Background(), "a", "b")
			release()
		}()
		go func() {
			defer wg.Done()
			release, _ := l.Acquire(context.Background(), "b", "a")
			release()
		}()
	}
	wg.Wait()
}
