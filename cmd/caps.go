package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/docbatch/internal/capability"
)

var capsCmd = &cobra.Command{
	Use:   "caps",
	Short: "Show which optional capabilities are available",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Println()
		for _, s := range capability.Describe(capability.Detect(cfg.Tools)) {
			mark := "✗"
			if s.Available {
				mark = "✓"
			}
			fmt.Printf("  %s %-24s %s\n", mark, s.Name, s.Provider)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(capsCmd)
}
