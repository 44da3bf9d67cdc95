// Command console is the campaign management CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ignite/campaign-console/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
