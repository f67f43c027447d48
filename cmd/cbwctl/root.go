package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cyberwatch/cbw-go/internal/app"
	"github.com/cyberwatch/cbw-go/internal/config"
	"github.com/cyberwatch/cbw-go/internal/logger"
	"github.com/cyberwatch/cbw-go/pkg/cbwapi"
)

// errOperationFailed reports an operation that answered with its failure
// sentinel. The cause has already been logged by the client.
var errOperationFailed = errors.New("operation failed")

type cli struct {
	configFile string
	apiURL     string
	output     string

	stderr io.Writer
	cfg    *config.Config
	log    logger.Logger
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "cbwctl: %v\n", err)
	}
	_ = logger.Close()
	return cbwapi.ExitCode(err)
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	c := &cli{stderr: stderr}

	root := &cobra.Command{
		Use:           "cbwctl",
		Short:         "Command line client for the Cyberwatch API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			switch c.output {
			case outputText, outputJSON, outputYAML:
				return nil
			default:
				return fmt.Errorf("unknown output format %q (text, json or yaml)", c.output)
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (yaml, json or toml)")
	flags.StringVar(&c.apiURL, "url", "", "Cyberwatch address, overrides CBW_API_URL")
	flags.StringVarP(&c.output, "output", "o", outputText, "output format: text, json or yaml")

	for _, op := range operations() {
		root.AddCommand(c.operationCmd(op))
	}
	root.AddCommand(c.resourcesCmd(), c.exportCmd())
	return root
}

// config loads the configuration once per invocation.
func (c *cli) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if u := strings.TrimSpace(c.apiURL); u != "" {
		cfg.APIURL = u
	}

	log, err := logger.InitWriter(cfg, c.stderr)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	c.cfg, c.log = cfg, log
	return cfg, nil
}

func (c *cli) client() (*cbwapi.Client, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return app.NewClient(cfg, c.log)
}
