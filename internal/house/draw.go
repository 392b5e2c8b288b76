package house

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strconv"
)

// DrawFunc picks the winning digit for a round.
type DrawFunc func(roundID int64) (digit int, seed string, err error)

// SeedDraw derives the digit from HMAC-SHA256(seed, roundID) with a fresh
// 32 byte seed per round. The seed is returned so it can be logged.
func SeedDraw(roundID int64) (int, string, error) {
	seed, err := GenerateSeed()
	if err != nil {
		return 0, "", err
	}
	return DigitFor(seed, roundID), seed, nil
}

// DigitFor maps the first 64 bits of the HMAC onto 0..9.
func DigitFor(seed string, roundID int64) int {
	h := hmac.New(sha256.New, []byte(seed))
	h.Write([]byte(strconv.FormatInt(roundID, 10)))
	sum := h.Sum(nil)
	return int(binary.BigEndian.Uint64(sum[:8]) % 10)
}

func GenerateSeed() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
