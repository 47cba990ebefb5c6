package linker

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewTraceID returns a fresh 128-bit trace identifier as 32 lowercase hex
// characters.
func NewTraceID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
