// Command cbwctl drives a Cyberwatch instance from the shell: one subcommand
// per API operation plus a record export loop.
package main

import (
	"context"
	"os"
)

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
