package model

import (
	"fmt"
	"strconv"
	"time"

	nanoid "github.com/jaevor/go-nanoid"
)

const (
	idAlphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
	idSuffixLength = 9
)

// IDGenerator returns a new task identifier on every call.
type IDGenerator func() string

// NewIDGenerator builds identifiers from the clock in unix milliseconds
// followed by a random base-36 suffix. Collisions are possible only within a
// single millisecond and are negligible for a single device.
func NewIDGenerator(clock func() time.Time) (IDGenerator, error) {
	suffix, err := nanoid.CustomASCII(idAlphabet, idSuffixLength)
	if err != nil {
		return nil, fmt.Errorf("could not init id suffix generator: %w", err)
	}
	if clock == nil {
		clock = time.Now
	}
	return func() string {
		return strconv.FormatInt(clock().UnixMilli(), 10) + suffix()
	}, nil
}
