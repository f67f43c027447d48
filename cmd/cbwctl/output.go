package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cyberwatch/cbw-go/pkg/cbwobject"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// render prints v. Text output puts one record per line in the
// cbw_object(...) form.
func render(w io.Writer, format string, v cbwobject.Value) error {
	switch format {
	case outputJSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	if items, ok := v.List(); ok {
		for _, item := range items {
			if _, err := fmt.Fprintln(w, item.String()); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := fmt.Fprintln(w, v.String())
	return err
}
