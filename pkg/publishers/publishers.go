package publishers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	// Supported publisher types.
	TypeSQS    = "sqs"
	TypeSNS    = "sns"
	TypePubSub = "pubsub"
	TypeHTTP   = "http"

	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

// File is the layout of a publishers file.
type File struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
}

// PublisherConfig is one sink entry. Only the block matching Type is read.
type PublisherConfig struct {
	ID      string                 `json:"id" yaml:"id"`
	Type    string                 `json:"type" yaml:"type"`
	Enabled *bool                  `json:"enabled" yaml:"enabled"`
	SQS     *SQSPublisherConfig    `json:"sqs" yaml:"sqs"`
	SNS     *SNSPublisherConfig    `json:"sns" yaml:"sns"`
	PubSub  *PubSubPublisherConfig `json:"pubsub" yaml:"pubsub"`
	HTTP    *HTTPPublisherConfig   `json:"http" yaml:"http"`
}

type SQSPublisherConfig struct {
	QueueURL string `json:"uri" yaml:"uri"`
	Region   string `json:"region" yaml:"region"`
}

type SNSPublisherConfig struct {
	TopicARN string `json:"topic_arn" yaml:"topic_arn"`
	Region   string `json:"region" yaml:"region"`
}

// PubSubPublisherConfig holds Google Cloud Pub/Sub settings. An empty
// CredentialsFile falls back to application default credentials.
type PubSubPublisherConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// HTTPPublisherConfig holds webhook settings. TLS verification is on unless
// InsecureSkipVerify is set.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`

	InsecureSkipVerify bool `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

// section is a type-specific block of a PublisherConfig.
type section interface {
	normalize()
	// missing names the required fields left empty.
	missing() []string
}

func (c *SQSPublisherConfig) normalize() {
	c.QueueURL = strings.TrimSpace(c.QueueURL)
	c.Region = strings.TrimSpace(c.Region)
}

func (c *SQSPublisherConfig) missing() []string {
	return emptyFields(map[string]string{"uri": c.QueueURL, "region": c.Region})
}

func (c *SNSPublisherConfig) normalize() {
	c.TopicARN = strings.TrimSpace(c.TopicARN)
	c.Region = strings.TrimSpace(c.Region)
}

func (c *SNSPublisherConfig) missing() []string {
	return emptyFields(map[string]string{"topic_arn": c.TopicARN, "region": c.Region})
}

func (c *PubSubPublisherConfig) normalize() {
	c.ProjectID = strings.TrimSpace(c.ProjectID)
	c.Topic = strings.TrimSpace(c.Topic)
	c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
}

func (c *PubSubPublisherConfig) missing() []string {
	return emptyFields(map[string]string{"project_id": c.ProjectID, "topic": c.Topic})
}

func (c *HTTPPublisherConfig) normalize() {
	c.URL = strings.TrimSpace(c.URL)
	c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
	if c.Method == "" {
		c.Method = httpDefaultMethod
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = httpDefaultTimeoutSeconds
	}
	headers := lo.PickBy(
		lo.MapEntries(c.Headers, func(k, v string) (string, string) {
			return strings.TrimSpace(k), strings.TrimSpace(v)
		}),
		func(k, v string) bool { return k != "" && v != "" },
	)
	c.Headers = nil
	if len(headers) > 0 {
		c.Headers = headers
	}
}

func (c *HTTPPublisherConfig) missing() []string {
	return emptyFields(map[string]string{"url": c.URL})
}

func emptyFields(fields map[string]string) []string {
	names := lo.Keys(lo.PickBy(fields, func(_, v string) bool { return v == "" }))
	slices.Sort(names)
	return names
}

// block returns the section Type selects. known is false for types this
// package does not define, which custom registries may still build.
func (cfg PublisherConfig) block() (s section, known bool) {
	switch cfg.Type {
	case TypeSQS:
		if cfg.SQS != nil {
			s = cfg.SQS
		}
	case TypeSNS:
		if cfg.SNS != nil {
			s = cfg.SNS
		}
	case TypePubSub:
		if cfg.PubSub != nil {
			s = cfg.PubSub
		}
	case TypeHTTP:
		if cfg.HTTP != nil {
			s = cfg.HTTP
		}
	default:
		return nil, false
	}
	return s, true
}

func (cfg *PublisherConfig) normalize() {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if cfg.Enabled == nil {
		cfg.Enabled = lo.ToPtr(true)
	}
	cfg.SQS, cfg.SNS = clone(cfg.SQS), clone(cfg.SNS)
	cfg.PubSub, cfg.HTTP = clone(cfg.PubSub), clone(cfg.HTTP)
	if s, _ := cfg.block(); s != nil {
		s.normalize()
	}
}

func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Validate checks the entry's id, type and required block fields.
func (cfg PublisherConfig) Validate() error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	if cfg.Type == "" {
		return fmt.Errorf("type is required for publisher %q", cfg.ID)
	}
	s, known := cfg.block()
	if !known {
		return nil
	}
	if s == nil {
		return fmt.Errorf("%s config required for publisher %q", cfg.Type, cfg.ID)
	}
	return errors.Join(lo.Map(s.missing(), func(field string, _ int) error {
		return fmt.Errorf("%s.%s is required for publisher %q", cfg.Type, field, cfg.ID)
	})...)
}

// EnabledValue returns enabled flag defaulting to true.
func (cfg PublisherConfig) EnabledValue() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}

// ConfigRegistry holds the validated entries of a publishers file. It is
// read-only once loaded.
type ConfigRegistry struct {
	entries []PublisherConfig
	byID    map[string]int
}

// LoadRegistry reads a YAML or JSON publishers file. ${VAR} references are
// expanded from the environment before decoding.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	file, err := decodeFile([]byte(os.ExpandEnv(string(raw))), filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decode publishers file %s: %w", path, err)
	}
	return NewConfigRegistry(file.Publishers)
}

// NewConfigRegistry normalizes and validates entries.
func NewConfigRegistry(entries []PublisherConfig) (*ConfigRegistry, error) {
	if len(entries) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}
	reg := &ConfigRegistry{
		entries: make([]PublisherConfig, 0, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}
	for i, cfg := range entries {
		cfg.normalize()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := reg.byID[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		reg.byID[cfg.ID] = len(reg.entries)
		reg.entries = append(reg.entries, cfg)
	}
	return reg, nil
}

// decodeFile rejects unknown fields so a misspelt key fails loudly instead
// of leaving a sink half configured.
func decodeFile(raw []byte, ext string) (File, error) {
	var file File
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return File{}, fmt.Errorf("json: %w", err)
		}
	case ".yaml", ".yml", "":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return File{}, fmt.Errorf("yaml: %w", err)
		}
	default:
		return File{}, fmt.Errorf("unsupported extension %q (expected .yaml, .yml or .json)", ext)
	}
	return file, nil
}

// ByID returns the publisher config by id.
func (r *ConfigRegistry) ByID(id string) (PublisherConfig, bool) {
	if r == nil {
		return PublisherConfig{}, false
	}
	i, ok := r.byID[strings.TrimSpace(id)]
	if !ok {
		return PublisherConfig{}, false
	}
	return r.entries[i], true
}

// All returns all configured publishers in file order.
func (r *ConfigRegistry) All() []PublisherConfig {
	if r == nil {
		return nil
	}
	return slices.Clone(r.entries)
}

// Enabled returns publishers that are enabled.
func (r *ConfigRegistry) Enabled() []PublisherConfig {
	if r == nil {
		return nil
	}
	return lo.Filter(r.entries, func(cfg PublisherConfig, _ int) bool {
		return cfg.EnabledValue()
	})
}
