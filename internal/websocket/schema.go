// Package websocket holds the wire schema and helpers for the live
// system-status stream consumed by the platform admin dashboard.
package websocket

// Event identifies a message type on the stream.
type Event string

const (
	// EventStatus carries a system status snapshot.
	EventStatus Event = "status"
	// EventError reports a stream-level failure before closing.
	EventError Event = "error"
)

// StatusMessage wraps a status snapshot pushed to the client.
type StatusMessage struct {
	Event   Event       `json:"event"`
	Payload interface{} `json:"payload"`
}

// ErrorResponse is sent when the stream cannot continue.
type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
