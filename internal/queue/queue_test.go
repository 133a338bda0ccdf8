package queue

import (
	"bytes"
	"log"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestSerial_RunsInSubmissionOrder(t *testing.T) {
	q := NewSerial("test")
	defer q.Close()

	var got []int
	for i := 0; i < 100; i++ {
		i := i
		q.Enqueue(func() { got = append(got, i) })
	}
	q.Flush()

	if len(got) != 100 {
		t.Fatalf("ran %d closures, want 100", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("got[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestSerial_PerProducerOrderPreserved(t *testing.T) {
	q := NewSerial("test")
	defer q.Close()

	const producers = 8
	const perProducer = 200

	seen := make(map[int][]int)
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				i := i
				q.Enqueue(func() { seen[p] = append(seen[p], i) })
			}
		}(p)
	}
	wg.Wait()
	q.Flush()

	for p := 0; p < producers; p++ {
		if len(seen[p]) != perProducer {
			t.Fatalf("producer %d: ran %d, want %d", p, len(seen[p]), perProducer)
		}
		for i, v := range seen[p] {
			if v != i {
				t.Fatalf("producer %d: position %d = %d, want %d", p, i, v, i)
			}
		}
	}
}

func TestSerial_PanicDoesNotStopQueue(t *testing.T) {
	q := NewSerial("test")
	defer q.Close()

	ran := false
	q.Enqueue(func() { panic("boom") })
	q.Enqueue(func() { ran = true })
	q.Flush()

	if !ran {
		t.Fatal("closure after panic did not run")
	}
}

func TestSerial_PanicReportedToStandardLogger(t *testing.T) {
	var buf bytes.Buffer
	prev, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prev)
		log.SetFlags(prevFlags)
	})

	q := NewSerial("logs")
	q.Enqueue(func() { panic("boom") })
	q.Close()

	if got := buf.String(); !strings.HasPrefix(got, "logs: panic in queued work: boom") {
		t.Fatalf("log output = %q", got)
	}
}

func TestSerial_CloseDrainsAndRejects(t *testing.T) {
	q := NewSerial("test")

	count := 0
	for i := 0; i < 10; i++ {
		q.Enqueue(func() { count++ })
	}
	q.Close()

	if count != 10 {
		t.Fatalf("count = %d, want 10 after Close", count)
	}
	if q.Enqueue(func() { count++ }) {
		t.Fatal("Enqueue after Close returned true")
	}
	q.Flush()
	q.Close()
	if count != 10 {
		t.Fatalf("count = %d, want 10", count)
	}
}

func TestNotifier_Coalesces(t *testing.T) {
	var n Notifier
	ch, cancel := n.Subscribe()
	defer cancel()

	for i := 0; i < 5; i++ {
		n.Notify()
	}

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no notification received")
	}
	select {
	case <-ch:
		t.Fatal("got a second notification, want coalesced signal")
	default:
	}
}

func TestNotifier_CancelClosesChannel(t *testing.T) {
	var n Notifier
	ch, cancel := n.Subscribe()
	if n.Len() != 1 {
		t.Fatalf("Len = %d, want 1", n.Len())
	}
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("channel still open after cancel")
	}
	if n.Len() != 0 {
		t.Fatalf("Len = %d, want 0", n.Len())
	}
	n.Notify()
}

func TestSnapshot_LoadStore(t *testing.T) {
	var s Snapshot[string]
	if got := s.Load(); got != nil {
		t.Fatalf("Load on empty = %v, want nil", got)
	}
	s.Store([]string{"a", "b"})
	if got := s.Load(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("Load = %v, want [a b]", got)
	}
}
