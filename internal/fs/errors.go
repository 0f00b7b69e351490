package fs

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"strings"
)

// Kind classifies failures surfaced by the core.
type Kind int

const (
	KindOther Kind = iota
	KindPermissionDenied
	KindNotFound
	KindEmptyClipboard
	KindPartialFailure
)

func (k Kind) String() string {
	switch k {
	case KindPermissionDenied:
		return "permission denied"
	case KindNotFound:
		return "not found"
	case KindEmptyClipboard:
		return "clipboard is empty"
	case KindPartialFailure:
		return "partial failure"
	default:
		return "error"
	}
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrEmptyClipboard   = &Error{Kind: KindEmptyClipboard}
	ErrPartialFailure   = &Error{Kind: KindPartialFailure}
)

// Error is a classified failure of a whole operation.
type Error struct {
	Kind  Kind
	Op    string
	Path  string
	Count int // failed items, for KindPartialFailure
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	switch {
	case e.Kind == KindPartialFailure:
		fmt.Fprintf(&b, "%d item(s) failed", e.Count)
	case e.Kind == KindOther && e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(e.Kind.String())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Classify wraps err into an *Error, mapping io/fs permission and existence
// failures. An err that is already classified is returned unchanged.
func Classify(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	kind := KindOther
	switch {
	case errors.Is(err, iofs.ErrPermission):
		kind = KindPermissionDenied
	case errors.Is(err, iofs.ErrNotExist):
		kind = KindNotFound
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Other builds a KindOther error carrying a plain message.
func Other(op, path, msg string) error {
	return &Error{Kind: KindOther, Op: op, Path: path, Err: errors.New(msg)}
}

// KindOf returns the Kind of err, KindOther when unclassified.
func KindOf(err error) Kind {
	var pe *PartialError
	if errors.As(err, &pe) {
		return KindPartialFailure
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindOther
}

// PartialError aggregates per-item failures of a bulk operation in which
// the remaining items were still attempted.
type PartialError struct {
	Op       string
	Total    int
	Failures []error
}

// Count is the number of failed items.
func (e *PartialError) Count() int { return len(e.Failures) }

func (e *PartialError) Error() string {
	msg := fmt.Sprintf("%s: %d of %d item(s) failed", e.Op, len(e.Failures), e.Total)
	if len(e.Failures) > 0 {
		msg += ": " + e.Failures[0].Error()
	}
	return msg
}

func (e *PartialError) Unwrap() []error { return e.Failures }

// Is matches ErrPartialFailure.
func (e *PartialError) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == KindPartialFailure
}

// Collect returns nil when failures is empty, otherwise a *PartialError.
func Collect(op string, total int, failures []error) error {
	if len(failures) == 0 {
		return nil
	}
	return &PartialError{Op: op, Total: total, Failures: failures}
}
