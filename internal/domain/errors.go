package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// Engine errors. Each one wraps the generic kind it belongs to, so
// errors.Is(err, ErrNotFound) also holds for an unknown channel.
var (
	// ErrUnknownChannel: a request references a channel id that was never registered.
	ErrUnknownChannel = fmt.Errorf("unknown channel: %w", ErrNotFound)
	// ErrConfigConflict: two registrations disagree about the same channel id. Fatal at startup.
	ErrConfigConflict = fmt.Errorf("channel config conflict: %w", ErrConflict)
	// ErrMalformedLink: a deep link is malformed or uses a foreign scheme/host.
	ErrMalformedLink = fmt.Errorf("malformed link: %w", ErrBadRequest)
	// ErrIdentifierExhausted: no free notification id is left among the live set.
	ErrIdentifierExhausted = errors.New("notification identifiers exhausted")
)
