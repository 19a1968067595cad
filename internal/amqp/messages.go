package amqp

import (
	"encoding/json"
	"time"
)

// Routing keys carried in the event envelope. Consumers dispatch on
// the Event field.
const (
	EventCycleStarted   = "cycle.started"
	EventCycleFinalized = "cycle.finalized"
	EventPeriodArchived = "period.archived"
	EventArchiveDeleted = "archive.deleted"
	EventDatabaseReset  = "database.reset"
)

// Event is a lightweight lifecycle notification. It carries only
// identifiers; consumers fetch the full record from the database.
type Event struct {
	Event      string    `json:"event"`
	CycleID    int64     `json:"cycle_id,omitempty"`
	ArchiveID  int64     `json:"archive_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent builds an envelope stamped with the current time.
func NewEvent(name string, cycleID, archiveID int64) *Event {
	return &Event{
		Event:      name,
		CycleID:    cycleID,
		ArchiveID:  archiveID,
		OccurredAt: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON parses an event from JSON bytes.
func EventFromJSON(data []byte) (*Event, error) {
	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, err
	}
	return &evt, nil
}
