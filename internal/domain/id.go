package domain

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"regexp"
	"sync/atomic"
	"time"
)

// Identifiers are 24-character hex strings: 4 bytes of unix seconds,
// 5 bytes of per-process entropy and a 3-byte counter. Time-prefixed
// ids keep insertion order roughly sortable, which the registries rely
// on for creation-time listing.

var (
	idEntropy [5]byte
	idCounter uint32

	idPattern = regexp.MustCompile(`^[a-f0-9]{24}$`)
)

func init() {
	if _, err := rand.Read(idEntropy[:]); err != nil {
		panic("domain: cannot seed id entropy: " + err.Error())
	}
	var c [4]byte
	if _, err := rand.Read(c[:]); err != nil {
		panic("domain: cannot seed id counter: " + err.Error())
	}
	idCounter = binary.BigEndian.Uint32(c[:])
}

// NewID returns a new unique 24-character hex identifier.
func NewID() string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(time.Now().Unix()))
	copy(b[4:9], idEntropy[:])
	n := atomic.AddUint32(&idCounter, 1)
	b[9] = byte(n >> 16)
	b[10] = byte(n >> 8)
	b[11] = byte(n)
	return hex.EncodeToString(b[:])
}

// IsValidID reports whether s has the 24-character hex id shape.
func IsValidID(s string) bool {
	return idPattern.MatchString(s)
}
