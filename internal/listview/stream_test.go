package listview

import (
	"errors"
	"strconv"
	"testing"
)

func TestMapStreamConvertsAndDrops(t *testing.T) {
	t.Parallel()

	src := newFakeStream()
	mapped := MapStream(src, func(e entry) (string, bool) {
		if e.Title == "" {
			return "", false
		}
		return e.Title, true
	})

	src.snapshots <- []entry{{Title: "a"}, {Title: ""}, {Title: "b"}}

	snap := <-mapped.Snapshots()
	if len(snap) != 2 || snap[0] != "a" || snap[1] != "b" {
		t.Fatalf("snapshot = %v, want [a b]", snap)
	}
}

func TestMapStreamKeepsLatestSnapshot(t *testing.T) {
	t.Parallel()

	src := newFakeStream()
	mapped := MapStream(src, func(e entry) (string, bool) {
		return e.Title, true
	})

	// Fill the source faster than anyone reads the mapped side.
	for i := 0; i < 3; i++ {
		src.snapshots <- []entry{{Title: strconv.Itoa(i)}}
	}
	close(src.snapshots)
	close(src.errs)

	var last []string
	for snap := range mapped.Snapshots() {
		last = snap
	}
	if len(last) != 1 || last[0] != "2" {
		t.Fatalf("final snapshot = %v, want [2]", last)
	}
}

func TestMapStreamForwardsErrorsAndUnsubscribe(t *testing.T) {
	t.Parallel()

	src := newFakeStream()
	mapped := MapStream(src, func(e entry) (string, bool) {
		return e.Title, true
	})

	src.errs <- errors.New("backend gone")
	if err := <-mapped.Errs(); err == nil || err.Error() != "backend gone" {
		t.Fatalf("err = %v, want backend gone", err)
	}

	mapped.Unsubscribe()
	if got := src.unsubscribed.Load(); got != 1 {
		t.Fatalf("unsubscribed = %d, want 1", got)
	}
}

func TestMapStreamClosesWhenSourceCloses(t *testing.T) {
	t.Parallel()

	src := newFakeStream()
	mapped := MapStream(src, func(e entry) (string, bool) {
		return e.Title, true
	})

	close(src.snapshots)
	close(src.errs)

	for range mapped.Snapshots() {
	}
	if _, ok := <-mapped.Errs(); ok {
		t.Fatalf("Errs() still open after source closed")
	}
}
