// Package uuid generates time-ordered UUIDv7 identifiers. Every row in
// the database is keyed by one, so IDs sort by creation time; the
// position engine relies on this only indirectly (created_at is the
// replay tie-breaker), but ordered keys keep index pages hot.
package uuid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	googleuuid "github.com/google/uuid"
)

// New returns a fresh UUIDv7 string (RFC 4122: 48-bit millisecond
// timestamp, version and variant bits, 74 random bits).
func New() string {
	var id [16]byte

	// The top 48 bits carry the Unix timestamp in milliseconds.
	binary.BigEndian.PutUint64(id[0:8], uint64(time.Now().UnixMilli())<<16)

	if _, err := rand.Read(id[6:]); err != nil {
		// No randomness available; fall back to a v4 from the library.
		return googleuuid.New().String()
	}

	id[6] = (id[6] & 0x0f) | 0x70 // version 7
	id[8] = (id[8] & 0x3f) | 0x80 // variant 10

	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		binary.BigEndian.Uint32(id[0:4]),
		binary.BigEndian.Uint16(id[4:6]),
		binary.BigEndian.Uint16(id[6:8]),
		binary.BigEndian.Uint16(id[8:10]),
		id[10:16],
	)
}

// Parse validates a UUID string and returns its canonical form.
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid reports whether s parses as a UUID.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
