package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/flashcard-scheduler/internal/app"
	"github.com/heartmarshall/flashcard-scheduler/pkg/ctxutil"
)

func seedCmd() *cobra.Command {
	var (
		deck     string
		seedCfg  app.SeedConfig
		seedFlag int64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill a deck with synthetic cards for trying out the engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			seedCfg.DeckID = uuid.New()
			if deck != "" {
				id, err := uuid.Parse(deck)
				if err != nil {
					return fmt.Errorf("seed: invalid --deck: %w", err)
				}
				seedCfg.DeckID = id
			}
			cmd.SetContext(ctxutil.WithDeckID(cmd.Context(), seedCfg.DeckID))
			seedCfg.Seed = uint64(seedFlag)
			if !cmd.Flags().Changed("seed") {
				seedCfg.Seed = uint64(time.Now().UnixNano())
			}

			engine, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer engine.Close()

			res, err := app.SeedDeck(cmd.Context(), logger, engine.Cards, seedCfg, time.Now())
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deck %s: %d cards in %d batches (%s)\n",
				seedCfg.DeckID, res.Inserted, res.Batches, res.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVar(&deck, "deck", "", "deck id (default: a new random deck)")
	cmd.Flags().IntVar(&seedCfg.Fresh, "fresh", 20, "never-studied cards to create")
	cmd.Flags().IntVar(&seedCfg.Reviewed, "reviewed", 80, "cards with generated review history")
	cmd.Flags().IntVar(&seedCfg.BatchSize, "batch-size", 500, "cards written per transaction")
	cmd.Flags().Int64Var(&seedFlag, "seed", 0, "random seed for reproducible decks")
	cmd.Flags().BoolVar(&seedCfg.DryRun, "dry-run", false, "generate cards without writing them")

	return cmd
}
