// readahead shows the efficiency of the kernel's file-system read-ahead:
// how many prefetched pages went unused and how long the used ones
// waited before their first access.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/frobware/go-readahead/cmd/readahead/cli"
	"github.com/frobware/go-readahead/config"
)

func main() {
	defaults := config.Default()
	c := cli.CLI{Defaults: defaults}
	kong.Parse(&c, cli.KongOptions(defaults)...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := c.Run(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "readahead: %v\n", err)
		os.Exit(1)
	}
}
