package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"lavish/internal/ids"
)

// ChangeEvent announces one ledger mutation. It carries only identifiers;
// consumers reload the slot for the data itself.
type ChangeEvent struct {
	EventID   string    `json:"event_id"`
	Kind      string    `json:"kind"`
	RecordID  int64     `json:"record_id"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

var errInvalidEventID = errors.New("invalid event id")

func NewChangeEvent(kind string, recordID int64, count int) *ChangeEvent {
	return &ChangeEvent{
		EventID:   ids.New(),
		Kind:      kind,
		RecordID:  recordID,
		Count:     count,
		Timestamp: time.Now(),
	}
}

func (m *ChangeEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeEventFromJSON decodes a message body; the event id must be a ULID.
func ChangeEventFromJSON(data []byte) (*ChangeEvent, error) {
	var msg ChangeEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !ids.Valid(msg.EventID) {
		return nil, errInvalidEventID
	}
	return &msg, nil
}
