package amqp

import (
	"encoding/json"
	"time"
)

// RowSyncMessage represents a lightweight message for syncing a ledger row to
// Google Sheets. Contains only the ID and version, the worker will fetch the
// full row from the database.
type RowSyncMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRowSyncMessage creates a new sync message with just ID and version
func NewRowSyncMessage(id, version int64) *RowSyncMessage {
	return &RowSyncMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RowSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RowSyncMessageFromJSON creates a message from JSON bytes
func RowSyncMessageFromJSON(data []byte) (*RowSyncMessage, error) {
	var msg RowSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
