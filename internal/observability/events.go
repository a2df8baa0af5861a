package observability

// LifecycleEvent is the envelope published for websocket gateway activity:
// connects, disconnects and room membership changes. Consumers route on the
// stream name and inspect the payload.
type LifecycleEvent struct {
	Stream  string      `json:"stream"`
	Name    string      `json:"name"`
	Payload interface{} `json:"payload"`
}

// TraceHeaders builds the message headers that let downstream consumers
// correlate a published event with the originating request and trace.
func TraceHeaders(requestID, traceID string) map[string]string {
	headers := map[string]string{}
	if requestID != "" {
		headers["x-request-id"] = requestID
	}
	if traceID != "" {
		headers["trace_id"] = traceID
	}
	return headers
}
