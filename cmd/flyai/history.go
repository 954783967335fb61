package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"flyai/internal/history"
)

func newHistoryCmd(configPath *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the most recent flight searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			recent, err := a.history.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RECORDED\tFROM\tTO\tDATE\tADULTS")
			for _, q := range recent {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
					q.RecordedAt.Local().Format(time.DateTime), q.Origin, q.Destination, q.Date, q.Adults)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", history.DefaultLimit, "number of searches to show")
	return cmd
}
