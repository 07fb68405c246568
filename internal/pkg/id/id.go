package id

import (
	"crypto/rand"
	"sync"

	"github.com/oklog/ulid/v2"
)

// Entity IDs are ULIDs: lexicographically sortable by creation time and safe
// as DynamoDB partition keys. The monotonic reader keeps IDs minted within
// the same millisecond strictly ordered.
var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

func New() string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}
