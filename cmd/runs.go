package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ikihsan/location-companyemails/internal/model"
	"github.com/ikihsan/location-companyemails/internal/store"
)

var (
	runsLimit  int
	runsStatus string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent scrape runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.ListRuns(cmd.Context(), store.RunFilter{
			Status: model.RunStatus(runsStatus),
			Limit:  runsLimit,
		})
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tLOCATIONS\tCOMPANIES\tEMAILS\tCREATED")
		for _, run := range runs {
			companies, emails := "-", "-"
			if run.Summary != nil {
				companies = fmt.Sprintf("%d", run.Summary.CompaniesDiscovered)
				emails = fmt.Sprintf("%d", run.Summary.TotalEmails)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				shortID(run.ID), run.Status, strings.Join(run.Locations, ", "),
				companies, emails, run.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to show")
	runsCmd.Flags().StringVar(&runsStatus, "status", "", "filter by status")
	rootCmd.AddCommand(runsCmd)
}
