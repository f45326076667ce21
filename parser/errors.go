package parser

import "fmt"

// ParsingError is the sole failure type the public API returns: a message
// and the zero-based character offset into the source at which parsing
// gave up.
type ParsingError struct {
	Message string
	Offset  int
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("%s (offset %d)", e.Message, e.Offset)
}

func newError(msg string, offset int) *ParsingError {
	return &ParsingError{Message: msg, Offset: offset}
}

// asParsingError normalizes any error returned by an internal parse
// function into a *ParsingError. Every failure on this code path already
// is one; this only guards against a future non-conforming return.
func asParsingError(err error) *ParsingError {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*ParsingError); ok {
		return pe
	}
	return newError(err.Error(), 0)
}

// mergeErr implements furthest-progress-wins error reporting: between an
// outer, rule-specific failure and an inner failure from an alternative
// that was actually attempted, the one that got further into the source
// is reported. Ties favor the outer (more specific) message, since a tie
// means the inner attempt consumed nothing beyond where the outer rule
// itself already was.
func mergeErr(outer *ParsingError, inner error) *ParsingError {
	pe := asParsingError(inner)
	if pe == nil {
		return outer
	}
	if pe.Offset > outer.Offset {
		return pe
	}
	return outer
}
