package domain

import "encoding/json"

// Envelope es el formato comun de todas las respuestas REST.
// success=false es un fallo aunque el status HTTP sea 2xx.
type Envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp *Timestamp      `json:"timestamp,omitempty"`
	ErrorCode string          `json:"errorCode,omitempty"`
}

// HasData indica si el envelope trae un payload distinto de null.
func (e Envelope) HasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}
