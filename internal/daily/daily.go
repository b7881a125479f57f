// Package daily picks a deterministic answer for a calendar day, so every
// player who starts a daily game on the same date gets the same target.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % answersLen.
func WordIndex(date time.Time, salt string, answersLen int) int {
	if answersLen <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(answersLen))
}

// Picker chooses answers from a list indexed by day.
type Picker struct {
	Salt string
	Now  func() time.Time
}

// Pick returns today's date key and index into a list of n answers.
func (p Picker) Pick(n int) (date string, idx int) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	t := now()
	return DateKey(t), WordIndex(t, p.Salt, n)
}
