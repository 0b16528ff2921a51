package resolver

import (
	"errors"
	"fmt"
)

// Kind classifies a failed lookup.
type Kind int

const (
	KindOther Kind = iota
	KindNotFound
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindTimeout:
		return "timeout"
	default:
		return "error"
	}
}

var (
	// ErrNotFound matches lookups answered with NXDOMAIN.
	ErrNotFound = errors.New("name does not exist")
	// ErrTimeout matches lookups that got no answer in time.
	ErrTimeout = errors.New("lookup timed out")
)

// LookupError describes a failed query for a single name and type.
type LookupError struct {
	Name string
	Type string
	Kind Kind
	Err  error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lookup %s %s: %s: %v", e.Type, e.Name, e.Kind, e.Err)
	}
	return fmt.Sprintf("lookup %s %s: %s", e.Type, e.Name, e.Kind)
}

func (e *LookupError) Unwrap() error { return e.Err }

func (e *LookupError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrTimeout:
		return e.Kind == KindTimeout
	}
	return false
}

// IsNotFound reports whether err is a lookup that returned NXDOMAIN.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsTimeout reports whether err is a lookup that timed out.
func IsTimeout(err error) bool { return errors.Is(err, ErrTimeout) }
