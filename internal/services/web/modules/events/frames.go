package events

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/louisbranch/subtrack/internal/services/changefeed"
	webtemplates "github.com/louisbranch/subtrack/internal/services/web/templates"
)

// frameTypeKeepalive marks an idle websocket heartbeat.
const frameTypeKeepalive = "keepalive"

type wsFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func changeFrame(event changefeed.Event) (wsFrame, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return wsFrame{}, fmt.Errorf("marshal change event: %w", err)
	}
	return wsFrame{Type: webtemplates.ChangeEventName, Payload: payload}, nil
}

// writeSSEEvent writes one named event. The data line is a single JSON
// object, so no newline splitting is required.
func writeSSEEvent(w io.Writer, event changefeed.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, webtemplates.ChangeEventName, payload)
	return err
}

func writeSSEComment(w io.Writer, comment string) error {
	_, err := fmt.Fprintf(w, ": %s\n\n", comment)
	return err
}
