package fs

// StoreError represents a domain error from filesystem core operations.
//
// These are ordinary outcome conditions (entry not found, name taken, no
// space) as opposed to infrastructure failures. The request gateway that
// consumes this package translates StoreError codes into protocol-specific
// status codes; the core stays decoupled from that vocabulary.
type StoreError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Path is the entry name related to the error (if applicable)
	Path string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Path != "" {
		return e.Message + ": " + e.Path
	}
	return e.Message
}

// ErrorCode represents the category of a core filesystem error.
type ErrorCode int

const (
	// ErrNotFound indicates the named entry or inode number doesn't exist
	ErrNotFound ErrorCode = iota

	// ErrAlreadyExists indicates a directory entry with the name already exists
	ErrAlreadyExists

	// ErrNoSpace indicates the filesystem block budget cannot cover the
	// requested growth
	ErrNoSpace

	// ErrNotEmpty indicates a directory still has live entries and cannot
	// be removed
	ErrNotEmpty

	// ErrNotDirectory indicates the operation expected a directory but the
	// inode is of a different kind
	ErrNotDirectory

	// ErrIsDirectory indicates the operation expected a non-directory but
	// the inode is a directory
	ErrIsDirectory

	// ErrInvalidArgument indicates invalid parameters (empty name, name over
	// the component limit, non-positive batch size)
	ErrInvalidArgument

	// ErrInvalidCursor indicates the listing cookie doesn't identify a live
	// cursor (never issued, already exhausted, or evicted)
	ErrInvalidCursor

	// ErrExhausted indicates a listing cursor has no entries left. It is a
	// terminal state of a paged listing, not a failure; the listing surface
	// maps it to a final empty page
	ErrExhausted

	// ErrConsistency indicates a broken invariant inside the core itself,
	// such as a size delta that would drive an inode size below zero or a
	// cookie space that cannot produce a fresh cookie. The offending
	// operation is aborted and the condition is logged loudly
	ErrConsistency
)

// IsCode reports whether err is a StoreError with the given code.
func IsCode(err error, code ErrorCode) bool {
	se, ok := err.(*StoreError)
	return ok && se.Code == code
}
