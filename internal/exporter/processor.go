package exporter

import (
	"context"
	"crypto/sha1" //nolint:gosec // change detection, not security
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/cyberwatch/cbw-go/internal/logger"
	"github.com/cyberwatch/cbw-go/internal/metrics"
	"github.com/cyberwatch/cbw-go/internal/storage"
	"github.com/cyberwatch/cbw-go/pkg/cbwobject"
	"github.com/cyberwatch/cbw-go/pkg/publishers"
)

// Summary describes one resource pass.
type Summary struct {
	Resource  string `json:"resource"`
	Fetched   int    `json:"fetched"`
	Published int    `json:"published"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
}

// ResourceProcessor exports a single resource collection.
type ResourceProcessor struct {
	lister  Lister
	pub     EventPublisher
	log     logger.Logger
	deduper Deduper
	rec     Recorder
}

type pendingRecord struct {
	record *cbwobject.Object
	key    string
	fp     string
}

// NewResourceProcessor wires the processor. pub, deduper and rec may be nil.
func NewResourceProcessor(lister Lister, pub EventPublisher, log logger.Logger, deduper Deduper, rec Recorder) *ResourceProcessor {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &ResourceProcessor{
		lister:  lister,
		pub:     pub,
		log:     log,
		deduper: deduper,
		rec:     rec,
	}
}

// Process lists the resource and publishes records whose content changed
// since the last export.
func (p *ResourceProcessor) Process(ctx context.Context, resource string) (Summary, error) {
	summary := Summary{Resource: resource}

	records, err := p.lister.ListResource(ctx, resource, nil)
	if err != nil {
		return summary, fmt.Errorf("list %s: %w", resource, err)
	}
	summary.Fetched = len(records)

	fresh := p.filterNewRecords(resource, records)
	summary.Skipped = len(records) - len(fresh)
	for range summary.Skipped {
		p.observe(resource, metrics.OutcomeSkipped)
	}

	var errs []error
	for _, item := range fresh {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		delivered, err := p.publish(ctx, resource, item)
		switch {
		case err != nil:
			summary.Failed++
			p.observe(resource, metrics.OutcomeFailed)
			errs = append(errs, err)
		case !delivered:
			summary.Skipped++
			p.observe(resource, metrics.OutcomeSkipped)
		default:
			summary.Published++
			p.observe(resource, metrics.OutcomePublished)
		}
	}

	p.log.InfoObj("resource export completed", "export_result", summary)
	return summary, errors.Join(errs...)
}

// publish reports whether at least one sink took the record. Only delivered
// records are marked, so a run without sinks leaves them pending.
func (p *ResourceProcessor) publish(ctx context.Context, resource string, item pendingRecord) (bool, error) {
	if p.pub == nil {
		return false, nil
	}
	evt := publishers.NewEvent(resource, item.record)
	evt.Fingerprint = item.fp
	delivered, err := p.pub.Publish(ctx, evt)
	if delivered == 0 {
		if err != nil {
			return false, fmt.Errorf("publish %s record %q: %w", resource, item.record.ID(), err)
		}
		return false, nil
	}
	if err != nil {
		p.log.WarnObj("record delivered to some publishers only", "export_partial", map[string]any{
			"resource":  resource,
			"record_id": item.record.ID(),
			"delivered": delivered,
			"error":     err.Error(),
		})
	}

	if p.deduper == nil {
		return true, nil
	}
	if err := p.deduper.Mark(item.key, item.fp); err != nil {
		return true, fmt.Errorf("mark %s record %q: %w", resource, item.record.ID(), err)
	}
	return true, nil
}

// filterNewRecords drops records whose fingerprint matches the one last
// exported.
// Lookup failures keep the record so it is published rather than lost.
func (p *ResourceProcessor) filterNewRecords(resource string, records []*cbwobject.Object) []pendingRecord {
	pending := lo.FilterMap(records, func(record *cbwobject.Object, _ int) (pendingRecord, bool) {
		fp, err := Fingerprint(record)
		if err != nil {
			p.log.WarnObj("record fingerprint failed", "export_fingerprint_error", map[string]any{
				"resource":  resource,
				"record_id": record.ID(),
				"error":     err.Error(),
			})
			return pendingRecord{}, false
		}
		return pendingRecord{record: record, fp: fp, key: storage.Key(resource, record.ID())}, true
	})
	if p.deduper == nil {
		return pending
	}

	return lo.Filter(pending, func(item pendingRecord, _ int) bool {
		last, err := p.deduper.Exported(item.key)
		if err != nil {
			p.log.WarnObj("dedupe lookup failed", "export_dedupe_error", map[string]any{
				"resource": resource,
				"key":      item.key,
				"error":    err.Error(),
			})
			return true
		}
		return last != item.fp
	})
}

func (p *ResourceProcessor) observe(resource, outcome string) {
	if p.rec != nil {
		p.rec.ObserveRecord(resource, outcome)
	}
}

// Fingerprint hashes the record's JSON form. Field order is part of the
// form, so it is stable for identical API responses.
func Fingerprint(record *cbwobject.Object) (string, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	sum := sha1.Sum(raw) //nolint:gosec
	return hex.EncodeToString(sum[:]), nil
}
