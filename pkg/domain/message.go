package domain

// Header is one message header from a trace or debug dump.
type Header struct {
	Key   string `json:"key"`
	Type  string `json:"type,omitempty"`
	Value string `json:"value,omitempty"`
}

// Message is an exchange captured by the tracer or the debugger.
type Message struct {
	ID            string   `json:"id,omitempty"`
	UID           string   `json:"uid,omitempty"`
	Timestamp     string   `json:"timestamp,omitempty"`
	Headers       []Header `json:"headers,omitempty"`
	Body          string   `json:"body,omitempty"`
	BodyType      string   `json:"bodyType,omitempty"`
	BodyTruncated bool     `json:"bodyTruncated,omitempty"`
}

// Header returns the value of the named header.
func (m *Message) Header(key string) (string, bool) {
	for _, h := range m.Headers {
		if h.Key == key {
			return h.Value, true
		}
	}
	return "", false
}
