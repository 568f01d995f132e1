package listview

// MapStream converts a stream's element type. Elements for which convert
// returns false are dropped from the snapshot. The returned stream keeps the
// source's latest-wins delivery: an unread snapshot is replaced, not queued.
func MapStream[S, T any](src Stream[S], convert func(S) (T, bool)) Stream[T] {
	m := &mappedStream[S, T]{
		src:       src,
		snapshots: make(chan []T, 1),
		errs:      make(chan error, 1),
	}
	go m.pump(convert)
	return m
}

type mappedStream[S, T any] struct {
	src       Stream[S]
	snapshots chan []T
	errs      chan error
}

func (m *mappedStream[S, T]) Snapshots() <-chan []T { return m.snapshots }
func (m *mappedStream[S, T]) Errs() <-chan error    { return m.errs }
func (m *mappedStream[S, T]) Unsubscribe()          { m.src.Unsubscribe() }

func (m *mappedStream[S, T]) pump(convert func(S) (T, bool)) {
	snapshots := m.src.Snapshots()
	errs := m.src.Errs()
	for snapshots != nil || errs != nil {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				snapshots = nil
				continue
			}
			out := make([]T, 0, len(snap))
			for _, s := range snap {
				if t, keep := convert(s); keep {
					out = append(out, t)
				}
			}
			select {
			case <-m.snapshots:
			default:
			}
			m.snapshots <- out
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			select {
			case <-m.errs:
			default:
			}
			m.errs <- err
		}
	}
	close(m.snapshots)
	close(m.errs)
}
