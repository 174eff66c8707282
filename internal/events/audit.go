package events

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// AuditLogger consumes the user events stream and writes one audit line per
// lifecycle event. It runs as a consumer group so entries survive restarts.
type AuditLogger struct{}

func (AuditLogger) Handle(ctx context.Context, event Event) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return err
	}
	log.Printf("audit: %s at %s: %s", event.Type, event.Timestamp.Format(time.RFC3339), data)
	return nil
}
