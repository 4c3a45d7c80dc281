package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable
// by creation time; used for telemetry event ids.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// Millis is the default time-derived source for notification identifiers:
// milliseconds since the Unix epoch, the same clock ULIDs are built on.
func Millis() uint64 {
	return ulid.Now()
}
