package kernel

import "testing"

func newTestThread(name string, prio int8) *Thread {
	return &Thread{name: name, prio: prio}
}

func snapshotNames(q *readyQueue) []string {
	var names []string
	for _, t := range q.snapshot() {
		names = append(names, t.name)
	}
	return names
}

func TestReadyQueuePriorityOrder(t *testing.T) {
	var q readyQueue
	q.push(newTestThread("low", 20))
	q.push(newTestThread("high", 5))
	q.push(newTestThread("mid", 10))

	got := snapshotNames(&q)
	want := []string{"high", "mid", "low"}
	if len(got) != len(want) {
		t.Fatalf("snapshot length = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("snapshot = %v, want %v", got, want)
		}
	}
}

func TestReadyQueueFIFOWithinPriority(t *testing.T) {
	var q readyQueue
	q.push(newTestThread("X", 20))
	q.push(newTestThread("Y", 20))
	q.push(newTestThread("Z", 20))

	got := snapshotNames(&q)
	want := []string{"X", "Y", "Z"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("snapshot = %v, want %v", got, want)
		}
	}
}

func TestReadyQueuePopOrder(t *testing.T) {
	var q readyQueue
	q.push(newTestThread("a", 1))
	q.push(newTestThread("b", 0))

	if got := q.pop(); got.name != "b" {
		t.Fatalf("pop() = %q, want b", got.name)
	}
	if got := q.pop(); got.name != "a" {
		t.Fatalf("pop() = %q, want a", got.name)
	}
	if got := q.pop(); got != nil {
		t.Fatalf("pop() on empty queue = %v, want nil", got)
	}
}

func TestReadyQueueNonDecreasingPriority(t *testing.T) {
	var q readyQueue
	prios := []int8{5, -10, 3, 3, 127, -128, 0}
	for i, p := range prios {
		q.push(newTestThread(string(rune('a'+i)), p))
	}

	nodes := q.snapshot()
	for i := 1; i < len(nodes); i++ {
		if nodes[i-1].prio > nodes[i].prio {
			t.Fatalf("queue out of order at %d: %d > %d", i, nodes[i-1].prio, nodes[i].prio)
		}
	}
}
