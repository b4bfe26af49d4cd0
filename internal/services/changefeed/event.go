// Package changefeed fans out row change notifications to the browser
// sessions of the row's owner.
package changefeed

import (
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/ksuid"
)

// Type is the kind of row change.
type Type string

const (
	// TypeInsert reports a created row.
	TypeInsert Type = "INSERT"
	// TypeUpdate reports a modified row.
	TypeUpdate Type = "UPDATE"
	// TypeDelete reports a removed row.
	TypeDelete Type = "DELETE"
)

// TableSubscriptions is the only table that publishes changes.
const TableSubscriptions = "subscriptions"

// Event describes one committed row change.
type Event struct {
	ID         string    `json:"id"`
	Table      string    `json:"table"`
	Type       Type      `json:"type"`
	UserID     string    `json:"-"`
	RecordID   string    `json:"record_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent builds an event with a time-sortable id.
func NewEvent(table string, eventType Type, userID string, recordID string, occurredAt time.Time) (Event, error) {
	table = strings.TrimSpace(table)
	userID = strings.TrimSpace(userID)
	recordID = strings.TrimSpace(recordID)
	if table == "" || userID == "" || recordID == "" {
		return Event{}, fmt.Errorf("table, user id and record id are required")
	}
	switch eventType {
	case TypeInsert, TypeUpdate, TypeDelete:
	default:
		return Event{}, fmt.Errorf("unsupported change type %q", eventType)
	}
	eventID, err := ksuid.NewRandomWithTime(occurredAt)
	if err != nil {
		return Event{}, fmt.Errorf("generate event id: %w", err)
	}
	return Event{
		ID:         eventID.String(),
		Table:      table,
		Type:       eventType,
		UserID:     userID,
		RecordID:   recordID,
		OccurredAt: occurredAt.UTC(),
	}, nil
}
