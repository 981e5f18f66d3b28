package templates

import (
	"encoding/json"
	"io"
)

// MarshalData is the JSON payload of the info endpoint.
type MarshalData struct {
	Revision     string  `json:"revision,omitempty"`
	Branch       string  `json:"branch,omitempty"`
	Environment  string  `json:"environment,omitempty"`
	BootTime     string  `json:"boot_time,omitempty"`
	Uptime       float64 `json:"uptime,omitempty"`
	RequestCount int     `json:"request_count,omitempty"`
}

// WriteJSON encodes the payload onto w. Encoding errors are the
// caller's connection dying and are dropped.
func (m *MarshalData) WriteJSON(w io.Writer) {
	_ = json.NewEncoder(w).Encode(m)
}
