package fs

// Metrics receives operational events from the filesystem core. The
// production implementation lives in pkg/metrics (Prometheus-backed); a nil
// Metrics in the configuration selects the built-in no-op implementation, so
// the core never checks for nil at call sites.
type Metrics interface {
	// DirectoryOp records a completed directory mutation or query with its
	// outcome status ("ok" or the error code name).
	DirectoryOp(op, status string)

	// CursorOpened records registration of a new listing cursor.
	CursorOpened()

	// CursorClosed records removal of a listing cursor with the reason:
	// "exhausted", "expired" or "evicted".
	CursorClosed(reason string)

	// SetUsedBlocks reports the current filesystem-wide used-block count.
	SetUsedBlocks(blocks int64)
}

// noopMetrics is the zero-overhead default.
type noopMetrics struct{}

func (noopMetrics) DirectoryOp(op, status string) {}
func (noopMetrics) CursorOpened()                 {}
func (noopMetrics) CursorClosed(reason string)    {}
func (noopMetrics) SetUsedBlocks(blocks int64)    {}

// statusOf maps an operation outcome to a metrics status label.
func statusOf(err error) string {
	if err == nil {
		return "ok"
	}
	se, ok := err.(*StoreError)
	if !ok {
		return "error"
	}
	switch se.Code {
	case ErrNotFound:
		return "not_found"
	case ErrAlreadyExists:
		return "already_exists"
	case ErrNoSpace:
		return "no_space"
	case ErrNotEmpty:
		return "not_empty"
	case ErrNotDirectory:
		return "not_directory"
	case ErrIsDirectory:
		return "is_directory"
	case ErrInvalidArgument:
		return "invalid_argument"
	case ErrInvalidCursor:
		return "invalid_cursor"
	case ErrExhausted:
		return "exhausted"
	case ErrConsistency:
		return "consistency"
	default:
		return "error"
	}
}
