package exporter

import (
	"context"

	"github.com/cyberwatch/cbw-go/pkg/cbwapi"
	"github.com/cyberwatch/cbw-go/pkg/cbwobject"
	"github.com/cyberwatch/cbw-go/pkg/publishers"
)

// Lister pulls a whole collection by resource name. *cbwapi.Client
// implements it.
type Lister interface {
	ListResource(ctx context.Context, name string, params cbwapi.Params) ([]*cbwobject.Object, error)
}

// EventPublisher publishes records downstream and reports how many sinks
// accepted the event.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers the fingerprint each record had when it was last
// delivered. An empty fingerprint means the record is new.
type Deduper interface {
	Exported(key string) (string, error)
	Mark(key, fingerprint string) error
}

// Recorder counts per-record outcomes.
type Recorder interface {
	ObserveRecord(resource, outcome string)
}
