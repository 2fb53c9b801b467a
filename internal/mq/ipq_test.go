package mq

import "testing"

func TestIPQ_PushPopOrder(t *testing.T) {
	q := newIPQ(4)
	vals := []Key{5, 1, 9, 3, 7, 2, 8, 0, 6, 4}
	for _, k := range vals {
		q.tryLock()
		q.push(Pair{Key: k, Value: k})
		q.refreshTopKey()
		q.unlock()
	}

	var got []Key
	for !q.empty() {
		q.tryLock()
		got = append(got, q.popMin().Key)
		q.refreshTopKey()
		q.unlock()
	}

	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Fatalf("popMin not ascending: %v", got)
		}
	}
	if len(got) != len(vals) {
		t.Fatalf("expected %d elements, got %d", len(vals), len(got))
	}
}

func TestIPQ_TopKeyTracksMinimum(t *testing.T) {
	q := newIPQ(2)
	q.tryLock()
	if q.peekTopKey() != EmptyKey {
		t.Fatalf("expected EmptyKey on empty ipq, got %d", q.peekTopKey())
	}
	q.push(Pair{Key: 10})
	q.refreshTopKey()
	if q.peekTopKey() != 10 {
		t.Fatalf("expected topKey=10, got %d", q.peekTopKey())
	}
	q.push(Pair{Key: 3})
	q.refreshTopKey()
	if q.peekTopKey() != 3 {
		t.Fatalf("expected topKey=3 after smaller push, got %d", q.peekTopKey())
	}
	q.popMin()
	q.refreshTopKey()
	if q.peekTopKey() != 10 {
		t.Fatalf("expected topKey=10 after popping the 3, got %d", q.peekTopKey())
	}
	q.unlock()
}

func TestIPQ_TryLockExcludes(t *testing.T) {
	q := newIPQ(4)
	if !q.tryLock() {
		t.Fatal("expected first tryLock to succeed")
	}
	if q.tryLock() {
		t.Fatal("expected second tryLock to fail while held")
	}
	q.unlock()
	if !q.tryLock() {
		t.Fatal("expected tryLock to succeed after unlock")
	}
	q.unlock()
}

func TestIPQ_DAryDegrees(t *testing.T) {
	for _, degree := range []int{2, 3, 4, 8, 16} {
		q := newIPQ(degree)
		q.tryLock()
		for k := Key(100); k > 0; k-- {
			q.push(Pair{Key: k})
		}
		q.unlock()

		prev := Key(0)
		q.tryLock()
		for !q.empty() {
			p := q.popMin()
			if p.Key < prev {
				t.Fatalf("degree=%d: out-of-order pop, got %d after %d", degree, p.Key, prev)
			}
			prev = p.Key
		}
		q.unlock()
	}
}
