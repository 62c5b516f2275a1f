package codec

import (
	"errors"
	"fmt"
	"strings"

	lzstring "github.com/daku10/go-lz-string"
)

var ErrNotCompressed = errors.New("codec: value is not compressed")

var (
	toURLAlphabet   = strings.NewReplacer("+", "-", "/", "_")
	fromURLAlphabet = strings.NewReplacer("-", "+", "_", "/")
)

// Compress runs lz-string base64 compression and rewrites the output into
// the URL-safe alphabet without padding.
func Compress(text string) (string, error) {
	out, err := lzstring.CompressToBase64(text)
	if err != nil {
		return "", fmt.Errorf("codec: compress: %w", err)
	}
	return strings.TrimRight(toURLAlphabet.Replace(out), "="), nil
}

// Decompress reverses Compress. Any failure, including an empty result,
// reports ErrNotCompressed so callers can retry the value as plain text.
func Decompress(value string) (text string, err error) {
	if value == "" {
		return "", ErrNotCompressed
	}
	defer func() {
		// the decompressor indexes into its input and can panic on garbage
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrNotCompressed, r)
		}
	}()
	std := fromURLAlphabet.Replace(value)
	if rem := len(std) % 4; rem != 0 {
		std += strings.Repeat("=", 4-rem)
	}
	out, decErr := lzstring.DecompressFromBase64(std)
	if decErr != nil {
		return "", fmt.Errorf("%w: %v", ErrNotCompressed, decErr)
	}
	if out == "" {
		return "", ErrNotCompressed
	}
	return out, nil
}
