package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/flashcard-scheduler/internal/domain"
	"github.com/heartmarshall/flashcard-scheduler/internal/service/study"
	"github.com/heartmarshall/flashcard-scheduler/pkg/ctxutil"
)

const sessionHelp = "answer 0-5, b = bury until tomorrow, r = unbury all, q = quit"

// maxAnswerTime caps the recorded response time of a card left on screen.
const maxAnswerTime = 10 * time.Minute

type sessionService interface {
	GetStudyQueue(ctx context.Context, input study.GetQueueInput) ([]*domain.Card, error)
	ReviewCard(ctx context.Context, input study.ReviewCardInput) (domain.ScheduleResult, error)
	BuryCard(ctx context.Context, cardID uuid.UUID) error
	ResetBuried()
}

type sessionStats struct {
	Reviewed int
	Correct  int
	Buried   int
}

func sessionCmd() *cobra.Command {
	var (
		deck     string
		newLimit int
		maxTotal int
	)

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Study a deck interactively, grading cards from stdin",
		Long:  "Study a deck interactively. " + sessionHelp + ".",
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := uuid.Parse(deck)
			if err != nil {
				return fmt.Errorf("session: invalid --deck: %w", err)
			}
			cmd.SetContext(ctxutil.WithDeckID(cmd.Context(), deckID))
			if !cmd.Flags().Changed("new") {
				newLimit = cfg.SRS.NewCardsPerDay
			}

			engine, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer engine.Close()

			stats, err := runSession(cmd.Context(), engine.Study, deckID, newLimit, maxTotal,
				cmd.InOrStdin(), cmd.OutOrStdout(), time.Now)
			fmt.Fprintf(cmd.OutOrStdout(), "\nreviewed %d (%d correct), buried %d\n",
				stats.Reviewed, stats.Correct, stats.Buried)
			return err
		},
	}

	cmd.Flags().StringVar(&deck, "deck", "", "deck id (required)")
	cmd.Flags().IntVar(&newLimit, "new", 0, "new cards allowed this session (default from srs.new_cards_per_day)")
	cmd.Flags().IntVar(&maxTotal, "max", 0, "queue size cap (default from srs.max_queue_size)")
	_ = cmd.MarkFlagRequired("deck")

	return cmd
}

// runSession shows the head of the queue, applies one command per input
// line and rebuilds the queue until it is empty or the user quits.
// Fresh cards reviewed in the session count against newLimit.
func runSession(
	ctx context.Context,
	svc sessionService,
	deckID uuid.UUID,
	newLimit, maxTotal int,
	in io.Reader,
	out io.Writer,
	now func() time.Time,
) (sessionStats, error) {
	var stats sessionStats
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, sessionHelp)

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		remaining := max(newLimit, 0)
		queue, err := svc.GetStudyQueue(ctx, study.GetQueueInput{
			DeckID:        deckID,
			DailyNewLimit: &remaining,
			MaxTotal:      maxTotal,
		})
		if err != nil {
			return stats, err
		}
		if len(queue) == 0 {
			fmt.Fprintln(out, "nothing left to study")
			return stats, nil
		}

		card := queue[0]
		kind := "due"
		if card.IsFresh() {
			kind = "new"
		}
		fmt.Fprintf(out, "[%d left] %s card %s > ", len(queue), kind, card.ID)

		shown := now()
		if !scanner.Scan() {
			return stats, scanner.Err()
		}
		answer := strings.TrimSpace(scanner.Text())

		switch answer {
		case "q":
			return stats, nil
		case "b":
			if err := svc.BuryCard(ctx, card.ID); err != nil {
				return stats, err
			}
			stats.Buried++
			continue
		case "r":
			svc.ResetBuried()
			fmt.Fprintln(out, "  burials cleared")
			continue
		}

		q, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintln(out, sessionHelp)
			continue
		}

		res, err := svc.ReviewCard(ctx, study.ReviewCardInput{
			CardID:         card.ID,
			Quality:        domain.Quality(q),
			ResponseTimeMs: int(min(now().Sub(shown), maxAnswerTime).Milliseconds()),
		})
		if errors.Is(err, domain.ErrQualityOutOfRange) {
			fmt.Fprintln(out, sessionHelp)
			continue
		}
		if err != nil {
			return stats, err
		}

		stats.Reviewed++
		if domain.Quality(q).IsSuccess() {
			stats.Correct++
		}
		if kind == "new" {
			newLimit--
		}

		msg := fmt.Sprintf("  next in %d day(s), ease %.2f", res.Interval, res.EasinessFactor)
		if res.Leech {
			msg += ", leech: suspended"
		}
		fmt.Fprintln(out, msg)
	}
}
