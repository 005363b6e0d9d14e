package main

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/flashcard-scheduler/internal/service/study"
	"github.com/heartmarshall/flashcard-scheduler/pkg/ctxutil"
)

func queueCmd() *cobra.Command {
	var (
		deck     string
		newLimit int
		maxTotal int
	)

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Print today's ranked study queue for a deck",
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := uuid.Parse(deck)
			if err != nil {
				return fmt.Errorf("queue: invalid --deck: %w", err)
			}
			cmd.SetContext(ctxutil.WithDeckID(cmd.Context(), deckID))

			engine, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer engine.Close()

			input := study.GetQueueInput{DeckID: deckID, MaxTotal: maxTotal}
			if cmd.Flags().Changed("new") {
				input.DailyNewLimit = &newLimit
			}

			ranked, err := engine.Study.GetRankedQueue(cmd.Context(), input)
			if err != nil {
				return fmt.Errorf("queue: %w", err)
			}

			rows := queueRows(ranked)
			return render(cmd, rows, func(w io.Writer) error { return writeQueue(w, rows) })
		},
	}

	cmd.Flags().StringVar(&deck, "deck", "", "deck id (required)")
	cmd.Flags().IntVar(&newLimit, "new", 0, "new cards still allowed today (default from srs.new_cards_per_day)")
	cmd.Flags().IntVar(&maxTotal, "max", 0, "queue size cap (default from srs.max_queue_size)")
	_ = cmd.MarkFlagRequired("deck")

	return cmd
}
