package exporter

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/cyberwatch/cbw-go/internal/metrics"
	"github.com/cyberwatch/cbw-go/internal/storage"
	"github.com/cyberwatch/cbw-go/pkg/cbwapi"
	"github.com/cyberwatch/cbw-go/pkg/cbwobject"
	"github.com/cyberwatch/cbw-go/pkg/publishers"
)

// fakeLister serves parsed collections keyed by resource name.
type fakeLister struct {
	t     *testing.T
	pages map[string]string
	err   map[string]error
	calls []string
}

func (f *fakeLister) ListResource(_ context.Context, name string, _ cbwapi.Params) ([]*cbwobject.Object, error) {
	f.calls = append(f.calls, name)
	if err := f.err[name]; err != nil {
		return nil, err
	}
	v, err := cbwobject.Parse([]byte(f.pages[name]))
	if err != nil {
		f.t.Fatalf("parse %s fixture: %v", name, err)
	}
	items, _ := v.List()
	out := make([]*cbwobject.Object, 0, len(items))
	for _, item := range items {
		obj, _ := item.Object()
		out = append(out, obj)
	}
	return out, nil
}

// fakePublisher records events and can fail on a record id.
type fakePublisher struct {
	mu      sync.Mutex
	events  []publishers.Event
	errOnID string
	partial bool
}

func (f *fakePublisher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	if evt.RecordID == f.errOnID {
		if f.partial {
			return 1, errors.New("one sink down")
		}
		return 0, errors.New("boom")
	}
	return 1, nil
}

// fakeDeduper keeps the last fingerprint per key.
type fakeDeduper struct {
	mu      sync.Mutex
	seen    map[string]string
	failKey string
	failErr error
}

func (f *fakeDeduper) Exported(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if key == f.failKey && f.failErr != nil {
		return "", f.failErr
	}
	return f.seen[key], nil
}

func (f *fakeDeduper) Mark(key, fingerprint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen == nil {
		f.seen = make(map[string]string)
	}
	f.seen[key] = fingerprint
	return nil
}

type countingRecorder struct {
	outcomes map[string]int
}

func (c *countingRecorder) ObserveRecord(resource, outcome string) {
	if c.outcomes == nil {
		c.outcomes = make(map[string]int)
	}
	c.outcomes[resource+"/"+outcome]++
}

const serversFixture = `[{"id":1,"hostname":"old"},{"id":2,"hostname":"new"}]`

// versionOf returns the store key and fingerprint of a raw record.
func versionOf(t *testing.T, resource, raw string) (string, string) {
	t.Helper()
	v, err := cbwobject.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	obj, _ := v.Object()
	fp, err := Fingerprint(obj)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	return storage.Key(resource, obj.ID()), fp
}

func TestProcessorPublishesChangedRecordsOnly(t *testing.T) {
	seenKey, seenFP := versionOf(t, "servers", `{"id":1,"hostname":"old"}`)
	deduper := &fakeDeduper{seen: map[string]string{seenKey: seenFP}}
	pub := &fakePublisher{}
	rec := &countingRecorder{}

	processor := NewResourceProcessor(&fakeLister{t: t, pages: map[string]string{"servers": serversFixture}}, pub, nil, deduper, rec)

	summary, err := processor.Process(context.Background(), "servers")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if summary != (Summary{Resource: "servers", Fetched: 2, Published: 1, Skipped: 1}) {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.events))
	}
	evt := pub.events[0]
	if evt.Resource != "servers" || evt.RecordID != "2" || evt.Fingerprint == "" {
		t.Fatalf("unexpected event %+v", evt)
	}
	newKey, newFP := versionOf(t, "servers", `{"id":2,"hostname":"new"}`)
	if deduper.seen[newKey] != newFP || newFP != evt.Fingerprint {
		t.Fatalf("Mark not called for the new record: %v", deduper.seen)
	}
	if rec.outcomes["servers/"+metrics.OutcomePublished] != 1 || rec.outcomes["servers/"+metrics.OutcomeSkipped] != 1 {
		t.Fatalf("unexpected outcomes %v", rec.outcomes)
	}
}

func TestProcessorRepublishesChangedContent(t *testing.T) {
	deduper := &fakeDeduper{}
	pub := &fakePublisher{}
	lister := &fakeLister{t: t, pages: map[string]string{"hosts": `[{"id":8,"status":"init"}]`}}
	processor := NewResourceProcessor(lister, pub, nil, deduper, nil)

	if _, err := processor.Process(context.Background(), "hosts"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, err := processor.Process(context.Background(), "hosts"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("unchanged record should be published once, got %d", len(pub.events))
	}

	lister.pages["hosts"] = `[{"id":8,"status":"done"}]`
	if _, err := processor.Process(context.Background(), "hosts"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(pub.events) != 2 {
		t.Fatalf("changed record should be published again, got %d", len(pub.events))
	}
	if len(deduper.seen) != 1 {
		t.Fatalf("a record keeps one store entry across versions, got %v", deduper.seen)
	}
}

func TestProcessorLeavesRecordsPendingWithoutSinks(t *testing.T) {
	deduper := &fakeDeduper{}
	rec := &countingRecorder{}
	lister := &fakeLister{t: t, pages: map[string]string{"servers": serversFixture}}

	summary, err := NewResourceProcessor(lister, publishers.NewFanout(nil), nil, deduper, rec).Process(context.Background(), "servers")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if summary != (Summary{Resource: "servers", Fetched: 2, Skipped: 2}) {
		t.Fatalf("records without sinks must not count as published: %+v", summary)
	}
	if len(deduper.seen) != 0 {
		t.Fatalf("undelivered records must not be marked, got %v", deduper.seen)
	}
	if rec.outcomes["servers/"+metrics.OutcomeSkipped] != 2 || rec.outcomes["servers/"+metrics.OutcomePublished] != 0 {
		t.Fatalf("unexpected outcomes %v", rec.outcomes)
	}

	pub := &fakePublisher{}
	summary, err = NewResourceProcessor(lister, pub, nil, deduper, nil).Process(context.Background(), "servers")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if summary.Published != 2 || len(pub.events) != 2 {
		t.Fatalf("records should be delivered once a sink exists: %+v, %d events", summary, len(pub.events))
	}

	summary, _ = NewResourceProcessor(lister, nil, nil, deduper, nil).Process(context.Background(), "servers")
	if summary.Skipped != 2 || summary.Published != 0 {
		t.Fatalf("nil publisher should skip, got %+v", summary)
	}
}

func TestProcessorAggregatesPublishErrors(t *testing.T) {
	deduper := &fakeDeduper{}
	pub := &fakePublisher{errOnID: "2"}
	processor := NewResourceProcessor(&fakeLister{t: t, pages: map[string]string{"servers": serversFixture}}, pub, nil, deduper, nil)

	summary, err := processor.Process(context.Background(), "servers")
	if err == nil || !strings.Contains(err.Error(), `"2"`) {
		t.Fatalf("expected error mentioning record 2, got %v", err)
	}
	if summary.Failed != 1 || summary.Published != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(deduper.seen) != 1 {
		t.Fatalf("failed record must not be marked, seen %v", deduper.seen)
	}
}

func TestProcessorMarksPartialDeliveries(t *testing.T) {
	deduper := &fakeDeduper{}
	pub := &fakePublisher{errOnID: "1", partial: true}
	processor := NewResourceProcessor(&fakeLister{t: t, pages: map[string]string{"servers": serversFixture}}, pub, nil, deduper, nil)

	summary, err := processor.Process(context.Background(), "servers")
	if err != nil || summary.Published != 2 || len(deduper.seen) != 2 {
		t.Fatalf("partial delivery should count as published: %+v, %v", summary, err)
	}
}

func TestFilterNewRecordsKeepsLookupFailures(t *testing.T) {
	failKey, _ := versionOf(t, "servers", `{"id":2,"hostname":"new"}`)
	oldKey, oldFP := versionOf(t, "servers", `{"id":1,"hostname":"old"}`)
	deduper := &fakeDeduper{failKey: failKey, failErr: errors.New("lookup failed")}
	lister := &fakeLister{t: t, pages: map[string]string{"servers": serversFixture}}
	processor := NewResourceProcessor(lister, nil, nil, deduper, nil)

	records, _ := lister.ListResource(context.Background(), "servers", nil)
	deduper.seen = map[string]string{oldKey: oldFP}

	filtered := processor.filterNewRecords("servers", records)
	if len(filtered) != 1 || filtered[0].key != failKey {
		t.Fatalf("unexpected filter result %#v", filtered)
	}
}

func TestFingerprintFollowsFieldOrder(t *testing.T) {
	_, a := versionOf(t, "r", `{"id":1,"a":1,"b":2}`)
	if _, b := versionOf(t, "r", `{"id":1, "a":1, "b":2}`); a != b {
		t.Fatalf("whitespace must not change the fingerprint")
	}
	if _, c := versionOf(t, "r", `{"id":1,"a":1,"b":3}`); a == c {
		t.Fatalf("content change must change the fingerprint")
	}
}

func TestServiceRunJoinsResourceErrors(t *testing.T) {
	lister := &fakeLister{
		t:     t,
		pages: map[string]string{"servers": serversFixture, "groups": `[]`},
		err:   map[string]error{"hosts": cbwapi.ErrUnauthorized},
	}
	svc := NewService(lister, &fakePublisher{}, nil, nil, nil)

	err := svc.Run(context.Background(), []string{"servers", " hosts ", "groups", "servers", ""})
	if !errors.Is(err, cbwapi.ErrUnauthorized) {
		t.Fatalf("expected joined unauthorized error, got %v", err)
	}
	if strings.Join(lister.calls, ",") != "servers,hosts,groups" {
		t.Fatalf("unexpected list calls %v", lister.calls)
	}
}

func TestServiceRunAllCancelsEarly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lister := &fakeLister{t: t, pages: map[string]string{"servers": `[]`}}
	svc := NewService(lister, nil, nil, nil, nil)
	if errs := svc.runAll(ctx, []string{"servers"}); len(errs) != 0 {
		t.Fatalf("expected no errors on cancelled context, got %v", errs)
	}
	if len(lister.calls) != 0 {
		t.Fatalf("cancelled run should not list anything")
	}
}

func TestServiceRunRejectsEmptyInput(t *testing.T) {
	if err := NewService(&fakeLister{t: t}, nil, nil, nil, nil).Run(context.Background(), []string{" "}); err == nil {
		t.Fatalf("expected error when resource list is empty")
	}
	if err := NewService(nil, nil, nil, nil, nil).Run(context.Background(), []string{"servers"}); err == nil {
		t.Fatalf("expected error for an uninitialized service")
	}
}
