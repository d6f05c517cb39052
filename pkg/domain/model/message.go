package model

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// MessageID is a ULID so that ids sort by creation time
type MessageID string

// NewMessageID generates a new MessageID stamped with now
func NewMessageID(now time.Time) MessageID {
	return MessageID(ulid.MustNew(ulid.Timestamp(now), rand.Reader).String())
}
