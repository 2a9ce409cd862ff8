package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRunsCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List saved analysis runs or show the statistics of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				cells, err := st.StationYears(ctx, args[0])
				if err != nil {
					return err
				}
				if len(cells) == 0 {
					return fmt.Errorf("no stored statistics for run %s", args[0])
				}
				if asJSON {
					return writeJSON(cmd, cells)
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "YEAR\tSTATION\tN_DAYS\tN_WAVES\tMAX_DURATION\tN_DAYS_WAVES")
				for _, c := range cells {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", c.Year, c.Station, c.Days, c.Waves, c.MaxDuration, c.WaveDays)
				}
				return tw.Flush()
			}

			runs, err := st.Runs(ctx, limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, runs)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tMODE\tTHRESHOLD\tMIN\tDAY_COUNT\tYEARS\tSTATIONS\tINPUT")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%d\t%d\t%s\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Mode, r.Threshold, r.MinDuration, r.DayCount, r.Years, r.Stations, r.Input)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
