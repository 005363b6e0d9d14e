package main

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/flashcard-scheduler/internal/domain"
	"github.com/heartmarshall/flashcard-scheduler/internal/service/study"
)

func reviewCmd() *cobra.Command {
	var (
		card       string
		quality    int
		responseMs int
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Record one answer (quality 0-5) for a card",
		RunE: func(cmd *cobra.Command, args []string) error {
			cardID, err := uuid.Parse(card)
			if err != nil {
				return fmt.Errorf("review: invalid --card: %w", err)
			}

			engine, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer engine.Close()

			res, err := engine.Study.ReviewCard(cmd.Context(), study.ReviewCardInput{
				CardID:         cardID,
				Quality:        domain.Quality(quality),
				ResponseTimeMs: responseMs,
			})
			if err != nil {
				return fmt.Errorf("review: %w", err)
			}

			view := newReviewView(res)
			return render(cmd, view, func(w io.Writer) error { return writeReview(w, view) })
		},
	}

	cmd.Flags().StringVar(&card, "card", "", "card id (required)")
	cmd.Flags().IntVarP(&quality, "quality", "q", 0, "answer quality, 0 (blackout) to 5 (perfect) (required)")
	cmd.Flags().IntVar(&responseMs, "response-ms", 0, "time taken to answer, in milliseconds")
	_ = cmd.MarkFlagRequired("card")
	_ = cmd.MarkFlagRequired("quality")

	return cmd
}
