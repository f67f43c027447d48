package publishers

import (
	"time"

	"github.com/google/uuid"

	"github.com/cyberwatch/cbw-go/pkg/cbwobject"
)

// Event is the payload published downstream for one exported record.
type Event struct {
	ID          string          `json:"id"`
	Resource    string          `json:"resource"`
	RecordID    string          `json:"record_id"`
	Fingerprint string          `json:"fingerprint,omitempty"`
	Record      cbwobject.Value `json:"record"`
	CollectedAt time.Time       `json:"collected_at"`
}

// NewEvent wraps a record of the given resource collection.
func NewEvent(resource string, record *cbwobject.Object) Event {
	return Event{
		ID:          uuid.NewString(),
		Resource:    resource,
		RecordID:    record.ID(),
		Record:      record.Value(),
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are attached to queue and topic messages so consumers can
// route without decoding the body.
func (e Event) attributes() map[string]string {
	attrs := map[string]string{"resource": e.Resource}
	if e.RecordID != "" {
		attrs["record_id"] = e.RecordID
	}
	return attrs
}
