package exporter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/cyberwatch/cbw-go/internal/logger"
)

// Service coordinates exports across resource collections.
type Service struct {
	processor *ResourceProcessor
	log       logger.Logger
}

// NewService wires an exporter over the API lister.
func NewService(lister Lister, pub EventPublisher, log logger.Logger, deduper Deduper, rec Recorder) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	var processor *ResourceProcessor
	if lister != nil {
		processor = NewResourceProcessor(lister, pub, log, deduper, rec)
	}
	return &Service{processor: processor, log: log}
}

// Run executes one export pass for the given resources. Failures of one
// resource do not stop the others; they are joined into the result.
func (s *Service) Run(ctx context.Context, resources []string) error {
	if s == nil || s.processor == nil {
		return fmt.Errorf("exporter service is not initialized")
	}

	resources = lo.Uniq(lo.Compact(lo.Map(resources, func(r string, _ int) string {
		return strings.TrimSpace(r)
	})))
	if len(resources) == 0 {
		return fmt.Errorf("no resources configured for export")
	}

	errs := s.runAll(ctx, resources)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) runAll(ctx context.Context, resources []string) []error {
	errs := make([]error, 0, len(resources))

	for _, resource := range resources {
		if ctx.Err() != nil {
			break
		}
		if _, err := s.processor.Process(ctx, resource); err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("resource export failed", "export_error", map[string]any{
				"resource": resource,
				"error":    err.Error(),
			})
		}
	}

	return errs
}
