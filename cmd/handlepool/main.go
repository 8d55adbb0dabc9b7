// Command handlepool exercises the handlepool library: it replays the
// reference scenarios and runs randomized churn workloads.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:   "handlepool",
		Short: "Generational-handle pool toolkit",
		Long: `handlepool drives a generational-handle pool: handles to freed slots
never resolve again, even after the slot is reused.`,
		SilenceUsage: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "handlepool v%s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})
	root.AddCommand(newDemoCmd())
	root.AddCommand(newChurnCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
