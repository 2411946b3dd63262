// cmd/tools/instrument-tool/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var registryPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "instrument-tool",
		Short:         "Inspect and validate clinical score instrument registries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&registryPath, "path", "",
		"registry file (default: built-in catalog)")

	root.AddCommand(newValidateCmd(), newListCmd(), newScoreCmd(), newExportCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
