package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List registered discovery sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newRegistry(newFetcher())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTYPE\tBASE URL\tREQUIRES JS\tENABLED")
		for _, src := range reg.All() {
			info := src.Info()
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%v\n",
				info.Name, info.Type, info.BaseURL, info.RequiresJS,
				reg.IsEnabled(info.Name))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
