package store

// Source tells where the records of a load came from.
type Source string

const (
	SourceCache Source = "cache"
	SourceSlot  Source = "slot"
	SourceSeed  Source = "seed"
	SourceNone  Source = "none"
)

// Status separates a genuinely empty collection from one that is empty (or
// partial) because something failed. Callers render the same empty state
// either way; the distinction is for logs, tests and operators.
type Status int

const (
	StatusOK Status = iota
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LoadResult is the outcome of Collection.Load.
type LoadResult[T Record] struct {
	Records []T
	Source  Source
	// Err is the reason the load degraded, nil on a clean read.
	Err error
}

// Status classifies the result.
func (r LoadResult[T]) Status() Status {
	switch {
	case r.Err != nil:
		return StatusFailed
	case len(r.Records) == 0:
		return StatusEmpty
	default:
		return StatusOK
	}
}
