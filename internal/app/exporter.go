package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/lo"

	"github.com/cyberwatch/cbw-go/internal/config"
	"github.com/cyberwatch/cbw-go/internal/exporter"
	"github.com/cyberwatch/cbw-go/internal/logger"
	"github.com/cyberwatch/cbw-go/internal/metrics"
	"github.com/cyberwatch/cbw-go/internal/storage"
	"github.com/cyberwatch/cbw-go/pkg/cbwapi"
	"github.com/cyberwatch/cbw-go/pkg/publishers"
)

// Exporter is the inventory export runtime. It owns the API client, the
// dedupe store, the publisher fanout and the metrics registry, and runs the
// export loop.
type Exporter struct {
	cfg       *config.Config
	client    *cbwapi.Client
	fanout    *publishers.Fanout
	service   *exporter.Service
	resources []string
	interval  time.Duration
	log       logger.Logger
	store     storage.Store
	registry  *prometheus.Registry
}

// NewExporter builds the runtime from configuration. An empty API URL
// yields a cbwapi.ConfigurationError.
func NewExporter(ctx context.Context, cfg *config.Config, log logger.Logger) (*Exporter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(registry)

	client, err := NewClient(cfg, log, cbwapi.WithObserver(recorder))
	if err != nil {
		return nil, err
	}

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, err
	}

	storeOpts := storage.Options{
		RecordTTL:       cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"record_ttl_seconds":       int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	return &Exporter{
		cfg:       cfg,
		client:    client,
		fanout:    fanout,
		service:   exporter.NewService(client, fanout, log, store, recorder),
		resources: cfg.ExportResources,
		interval:  cfg.ExportInterval,
		log:       log,
		store:     store,
		registry:  registry,
	}, nil
}

// NewClient builds an API client from configuration.
func NewClient(cfg *config.Config, log logger.Logger, opts ...cbwapi.Option) (*cbwapi.Client, error) {
	opts = append([]cbwapi.Option{
		cbwapi.WithLogger(log),
		cbwapi.WithPageSize(cfg.PageSize),
		cbwapi.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
	}, opts...)
	return cbwapi.New(cbwapi.Config{
		URL:       cfg.APIURL,
		APIKey:    cfg.APIKey,
		SecretKey: cfg.SecretKey,
		VerifySSL: cfg.VerifySSL,
		Timeout:   cfg.Timeout,
	}, opts...)
}

// buildFanout loads the publishers file. A missing file leaves the exporter
// without sinks; records are then counted as skipped and stay pending.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(path) == "" {
		log.WarnObj("no publishers file configured", "publishers_file", path)
		return publishers.NewFanout(nil), nil
	}

	reg, err := publishers.LoadRegistry(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.WarnObj("publishers file not found; exporting without sinks", "publishers_file", path)
		return publishers.NewFanout(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := reg.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count": len(enabled),
		"publishers": lo.Map(enabled, func(c publishers.PublisherConfig, _ int) map[string]string {
			return map[string]string{"id": c.ID, "type": c.Type}
		}),
	})
	return publishers.NewFanout(pubs), nil
}

// Registry exposes the metrics registry the runtime records into.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Run performs an export pass and, when an interval is configured, repeats
// it until the context is cancelled. With no interval it returns the pass
// result.
func (e *Exporter) Run(ctx context.Context) error {
	if e == nil || e.service == nil {
		return fmt.Errorf("exporter is not initialized")
	}
	defer e.close()

	if addr := strings.TrimSpace(e.cfg.MetricsAddr); addr != "" {
		go func() {
			if err := metrics.Serve(ctx, addr, e.registry); err != nil {
				e.log.ErrorObj("metrics server failed", "error", err.Error())
			}
		}()
	}

	e.log.InfoObj("export loop starting", "export_state", map[string]any{
		"resources":        e.resources,
		"publishers_count": e.fanout.Size(),
		"export_interval":  e.interval.String(),
	})

	err := e.runOnce(ctx)
	if e.interval <= 0 {
		return err
	}
	if err != nil {
		e.log.ErrorObj("initial export failed", "error", err.Error())
	}

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.InfoObj("export loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := e.runOnce(ctx); err != nil {
				e.log.ErrorObj("scheduled export failed", "error", err.Error())
			}
		}
	}
}

func (e *Exporter) runOnce(ctx context.Context) error {
	start := time.Now()
	e.log.InfoObj("export started", "export_meta", map[string]any{
		"resources":  e.resources,
		"started_at": start.UTC(),
	})
	if err := e.service.Run(ctx, e.resources); err != nil {
		return err
	}
	e.log.InfoObj("export completed", "export_meta", map[string]any{
		"resources":  e.resources,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

func (e *Exporter) close() {
	if err := e.fanout.Close(); err != nil {
		e.log.ErrorObj("publishers close failed", "error", err.Error())
	}
	if e.store == nil {
		return
	}
	if err := e.store.Close(); err != nil {
		e.log.ErrorObj("storage close failed", "error", err.Error())
	}
}
