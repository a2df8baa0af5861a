package ws

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"jobboard-chat/internal/models"
)

// ConnInfo tags a gateway connection with the identity resolved during the
// handshake. It is immutable for the lifetime of the connection.
type ConnInfo struct {
	ConnID      string
	UserID      int
	Role        models.Role
	DeviceID    string
	IP          string
	UserAgent   string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}

// newConnID returns a random 32-hex-char connection id. It only tags log
// lines and lifecycle events, so an empty id on entropy failure is tolerable.
func newConnID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
