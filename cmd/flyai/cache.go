package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the answer cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Print the cache backend and entry count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.cache.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if st.Entries < 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "backend: %s\nentries: unknown\n", st.Backend)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "backend: %s\nentries: %d\n", st.Backend, st.Entries)
			return nil
		},
	})
	return cmd
}
