package model

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	idLength   = 10
	idAlphabet = "0123456789abcdefghjkmnpqrstvwxyz"
)

// NewID returns a short item id taken from the random bits of a UUIDv7.
// Ids travel inside shared links, so they are kept to ten characters.
func NewID() (string, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("model: generate id: %w", err)
	}
	return shortID(u), nil
}

func shortID(u uuid.UUID) string {
	// Skip the 48-bit timestamp and version nibble; ids minted in the same
	// millisecond must still differ.
	bits := (uint64(u[6]&0x0f) << 46) |
		(uint64(u[7]) << 38) |
		(uint64(u[8]&0x3f) << 32) |
		(uint64(u[9]) << 24) |
		(uint64(u[10]) << 16) |
		(uint64(u[11]) << 8) |
		uint64(u[12])

	var buf [idLength]byte
	for i := idLength - 1; i >= 0; i-- {
		buf[i] = idAlphabet[bits&0x1f]
		bits >>= 5
	}
	return string(buf[:])
}
