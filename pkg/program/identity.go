package program

import (
	"strings"

	"github.com/google/uuid"
)

// tempIDPrefix marks client-generated placeholder identities. The store
// replaces them with permanent ones on insert.
const tempIDPrefix = "temp_"

// NewID mints a permanent identity.
func NewID() string {
	return uuid.NewString()
}

// NewTempID mints a placeholder identity for an optimistically inserted row.
func NewTempID() string {
	return tempIDPrefix + uuid.NewString()
}

// IsTempID reports whether id is a client-generated placeholder.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}
