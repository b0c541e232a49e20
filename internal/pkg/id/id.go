package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs sort by creation time, which keeps
// code and session rows ordered within a partition or index.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
