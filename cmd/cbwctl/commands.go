package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/cyberwatch/cbw-go/internal/app"
	"github.com/cyberwatch/cbw-go/pkg/cbwapi"
)

func (c *cli) operationCmd(op operation) *cobra.Command {
	var rawParams []string
	var rawData string

	use := strings.Join(append([]string{op.name}, op.args...), " ")
	cmd := &cobra.Command{
		Use:   use,
		Short: op.short,
		Args:  cobra.ExactArgs(len(op.args)),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(rawParams)
			if err != nil {
				return err
			}
			data, err := parseData(rawData)
			if err != nil {
				return err
			}
			client, err := c.client()
			if err != nil {
				return err
			}

			res := op.run(cmd.Context(), client, input{args: args, params: params, data: data})
			if !res.ok {
				return fmt.Errorf("%s: %w", op.name, errOperationFailed)
			}
			return render(cmd.OutOrStdout(), c.output, res.value)
		},
	}

	if op.params {
		cmd.Flags().StringArrayVarP(&rawParams, "param", "p", nil, "query parameter key=value, repeat a key to send a list")
	}
	if op.data {
		cmd.Flags().StringVarP(&rawData, "data", "d", "", "JSON request body, or @file to read it from a file")
	}
	return cmd
}

func (c *cli) resourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List the collection names accepted by export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range cbwapi.Resources() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var resources []string
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Publish new or changed records to the configured sinks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("resources") {
				cfg.ExportResources = resources
			}
			if cmd.Flags().Changed("interval") {
				cfg.ExportInterval = interval
			}

			unknown := lo.Without(cfg.ExportResources, cbwapi.Resources()...)
			if len(unknown) > 0 {
				return fmt.Errorf("unknown resources %v: %w", unknown, cbwapi.ErrUnknownResource)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			exp, err := app.NewExporter(ctx, cfg, c.log)
			if err != nil {
				return err
			}
			return exp.Run(ctx)
		},
	}

	cmd.Flags().StringSliceVar(&resources, "resources", nil, "collections to export (see resources)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "repeat the export at this interval, 0 runs once")
	return cmd
}

// parseParams turns key=value pairs into query parameters. A repeated key
// becomes a list.
func parseParams(raw []string) (cbwapi.Params, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	params := make(cbwapi.Params, len(raw))
	for _, pair := range raw {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", pair)
		}
		switch prev := params[key].(type) {
		case nil:
			params[key] = value
		case string:
			params[key] = []string{prev, value}
		case []string:
			params[key] = append(prev, value)
		}
	}
	return params, nil
}

// parseData decodes the request body. Numbers keep their literal form.
func parseData(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	data := []byte(raw)
	if path, ok := strings.CutPrefix(raw, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read --data file: %w", err)
		}
		data = b
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode --data: %w", err)
	}
	return body, nil
}
