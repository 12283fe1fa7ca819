// Package session holds the live vector of a batch run. All methods are safe on a nil *Session,
// which is what single shot commands use.
package session

import (
	"errors"

	"gitlab.com/gitlab-org/correlation-vector/cv"
)

// Ref is the argument that refers to the session's current vector.
const Ref = "@"

var ErrNoCurrentVector = errors.New("no current vector: start the session with new, new-uuid or parse")

type Session struct {
	current *cv.Vector
}

func New() *Session {
	return &Session{}
}

// Lookup returns the current vector when arg is Ref. For any other argument it returns false and
// the caller parses arg itself.
func (s *Session) Lookup(arg string) (*cv.Vector, bool, error) {
	if s == nil || arg != Ref {
		return nil, false, nil
	}
	if s.current == nil {
		return nil, true, ErrNoCurrentVector
	}
	return s.current, true, nil
}

// Set makes v the current vector.
func (s *Session) Set(v *cv.Vector) {
	if s != nil {
		s.current = v
	}
}

func (s *Session) Current() *cv.Vector {
	if s == nil {
		return nil
	}
	return s.current
}
