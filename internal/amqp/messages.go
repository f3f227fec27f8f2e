package amqp

import (
	"encoding/json"
	"time"
)

// PaymentSyncMessage asks the sync worker to mirror one payment row to
// the Google Sheet. It carries only the ID; the worker fetches the full
// record from the database.
type PaymentSyncMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewPaymentSyncMessage creates a sync message for the given payment id.
func NewPaymentSyncMessage(id int64) *PaymentSyncMessage {
	return &PaymentSyncMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *PaymentSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PaymentSyncMessageFromJSON creates a message from JSON bytes.
func PaymentSyncMessageFromJSON(data []byte) (*PaymentSyncMessage, error) {
	var msg PaymentSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
