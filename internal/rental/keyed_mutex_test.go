package rental

import (
	"sync"
	"testing"
)

func (k *keyedMutex) entryCount() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func TestKeyedMutexEvictsReleasedEntries(t *testing.T) {
	var km keyedMutex

	unlock := km.lock("a")
	if km.entryCount() != 1 {
		t.Fatalf("expected 1 entry while held, got %d", km.entryCount())
	}
	unlock()
	if km.entryCount() != 0 {
		t.Fatalf("expected empty lock table after release, got %d", km.entryCount())
	}
}

func TestKeyedMutexMutualExclusion(t *testing.T) {
	var km keyedMutex

	const n = 20
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.lock("vehicle")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	if counter != n {
		t.Fatalf("expected %d increments under the lock, got %d", n, counter)
	}
	if km.entryCount() != 0 {
		t.Fatalf("expected empty lock table after all releases, got %d", km.entryCount())
	}
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	var km keyedMutex

	unlockA := km.lock("a")
	// 不同 key 的锁互不阻塞。
	unlockB := km.lock("b")
	if km.entryCount() != 2 {
		t.Fatalf("expected 2 entries, got %d", km.entryCount())
	}
	unlockB()
	unlockA()
	if km.entryCount() != 0 {
		t.Fatalf("expected empty lock table, got %d", km.entryCount())
	}
}
