package domain

import (
	"crypto/rand"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const (
	trackerPrefix   = "TXN-"
	trackerAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	trackerLength   = 6
)

var trackerIDPattern = regexp.MustCompile(`^TXN-[A-Z0-9]{6}$`)

// NewTrackerID draws TXN-XXXXXX from crypto/rand.
func NewTrackerID() (string, error) {
	return NewTrackerIDFrom(rand.Reader)
}

func NewTrackerIDFrom(r io.Reader) (string, error) {
	buf := make([]byte, trackerLength)
	out := make([]byte, 0, len(trackerPrefix)+trackerLength)
	out = append(out, trackerPrefix...)
	for len(out) < cap(out) {
		if _, err := io.ReadFull(r, buf[:1]); err != nil {
			return "", fmt.Errorf("tracker id entropy: %w", err)
		}
		// reject the tail of the byte range to keep the draw uniform
		if int(buf[0]) >= 256-256%len(trackerAlphabet) {
			continue
		}
		out = append(out, trackerAlphabet[int(buf[0])%len(trackerAlphabet)])
	}
	return string(out), nil
}

// NormalizeTrackerID upper-cases and trims user input.
func NormalizeTrackerID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

func IsTrackerID(id string) bool {
	return trackerIDPattern.MatchString(id)
}
