// Package xid mints prefixed identifiers for store records (products,
// presales, sales, registers, movements).
package xid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// New returns an id like "sale-1756723200000000000-9f86d081884c7d65". The
// timestamp keeps ids roughly sortable; the random suffix makes collisions
// across instances a non-issue.
func New(prefix string) string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixNano(), hex.EncodeToString(buf))
}
