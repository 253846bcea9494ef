package domain

import (
	"encoding/json"
	"time"
)

// ErrorRecord is the dead-letter payload emitted for a failed message.
type ErrorRecord struct {
	OriginalMessage json.RawMessage `json:"original_message"`
	ErrorMessage    string          `json:"error_message"`
	WorkerID        string          `json:"worker_id"`
	Timestamp       string          `json:"timestamp"`

	// TransactionID is best-effort and only used for routing (e.g. as a partition key).
	TransactionID string `json:"-"`
}

// NewErrorRecord builds an error record for payload. A payload that is valid
// JSON is embedded as-is; anything else is embedded as a JSON string.
func NewErrorRecord(payload []byte, errorMessage, workerID string, at time.Time) *ErrorRecord {
	rec := &ErrorRecord{
		ErrorMessage: errorMessage,
		WorkerID:     workerID,
		Timestamp:    at.UTC().Format(time.RFC3339),
	}

	if json.Valid(payload) {
		rec.OriginalMessage = append(json.RawMessage(nil), payload...)

		var probe struct {
			TransactionID string `json:"transaction_id"`
		}
		if err := json.Unmarshal(payload, &probe); err == nil {
			rec.TransactionID = probe.TransactionID
		}
	} else {
		quoted, _ := json.Marshal(string(payload))
		rec.OriginalMessage = quoted
	}

	return rec
}

// Marshal serializes the record to its wire form.
func (r *ErrorRecord) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
