package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func forecastCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Print the forgetting-risk forecast over all cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer engine.Close()

			// A CLI run has no warm cache, so always generate.
			snap, err := engine.Study.GetForecast(cmd.Context(), true)
			if err != nil {
				return fmt.Errorf("forecast: %w", err)
			}

			view := newForecastView(snap, limit)
			return render(cmd, view, func(w io.Writer) error { return writeForecast(w, view) })
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "riskiest cards to list (0 = all in the snapshot)")

	return cmd
}
