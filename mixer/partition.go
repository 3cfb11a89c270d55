package mixer

// Span is a half-open range [Start, End) of indices into an instant list.
type Span struct {
	Start int
	End   int
}

// Partition splits n instants into chunks of at most notesPerTask. The number
// of chunks is ceil(n/notesPerTask); the instants are then spread evenly over
// the chunks, so chunk sizes differ by at most one and the last chunk is
// never a small leftover. notesPerTask <= 0 means no splitting.
func Partition(n, notesPerTask int) []Span {
	if n <= 0 {
		return nil
	}
	if notesPerTask <= 0 || notesPerTask >= n {
		return []Span{{Start: 0, End: n}}
	}
	count := (n + notesPerTask - 1) / notesPerTask
	base, extra := n/count, n%count
	ret := make([]Span, 0, count)
	start := 0
	for i := range count {
		size := base
		if i < extra {
			size++
		}
		ret = append(ret, Span{Start: start, End: start + size})
		start += size
	}
	return ret
}
