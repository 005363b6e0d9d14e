// Package card implements card persistence on PostgreSQL.
// Queries are built with squirrel, rows are scanned with scany, and every
// statement runs through the context querier so it joins any transaction
// opened by postgres.TxManager.
package card

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/flashcard-scheduler/internal/adapter/postgres"
	"github.com/heartmarshall/flashcard-scheduler/internal/domain"
)

const table = "cards"

var columns = []string{
	"id", "deck_id", "easiness_factor", "interval_days", "repetition",
	"last_review_at", "next_review_at", "quality",
	"total_reviews", "correct_reviews", "avg_response_ms", "tags",
	"created_at", "updated_at",
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides card persistence backed by PostgreSQL.
type Repo struct {
	pool postgres.Pool
	tx   *postgres.TxManager
}

// New creates a new card repository over a *pgxpool.Pool (or a mock pool).
func New(pool postgres.Pool) *Repo {
	return &Repo{pool: pool, tx: postgres.NewTxManager(pool)}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetAll returns every card, ordered by next review.
func (r *Repo) GetAll(ctx context.Context) ([]*domain.Card, error) {
	return r.list(ctx, psql.Select(columns...).From(table).OrderBy("next_review_at ASC", "id ASC"))
}

// GetByDeck returns the cards of one deck, ordered by next review.
func (r *Repo) GetByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	query := psql.Select(columns...).
		From(table).
		Where(squirrel.Eq{"deck_id": deckID}).
		OrderBy("next_review_at ASC", "id ASC")
	return r.list(ctx, query)
}

// GetByID returns a card by primary key.
func (r *Repo) GetByID(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	sql, args, err := psql.Select(columns...).From(table).Where(squirrel.Eq{"id": cardID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get card: %w", err)
	}

	var row cardRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.pool), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("card %s: %w", cardID, domain.ErrNotFound)
		}
		return nil, postgres.MapError(err, "card", cardID)
	}
	return row.toDomain(), nil
}

// LeechCardIDs returns the ids of every card tagged as a leech.
func (r *Repo) LeechCardIDs(ctx context.Context) ([]uuid.UUID, error) {
	sql, args, err := psql.Select("id").
		From(table).
		Where("? = ANY(tags)", domain.LeechTag).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build leech ids: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query leech ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("scan leech ids: %w", err)
	}
	return ids, nil
}

func (r *Repo) list(ctx context.Context, query squirrel.SelectBuilder) ([]*domain.Card, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list cards: %w", err)
	}

	var rows []cardRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}

	cards := make([]*domain.Card, len(rows))
	for i := range rows {
		cards[i] = rows[i].toDomain()
	}
	return cards, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new card.
func (r *Repo) Create(ctx context.Context, card *domain.Card) error {
	sql, args, err := insertQuery(card).ToSql()
	if err != nil {
		return fmt.Errorf("build insert card: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "card", card.ID)
	}
	return nil
}

// CreateBatch inserts all cards in one transaction; either all are stored
// or none are.
func (r *Repo) CreateBatch(ctx context.Context, cards []*domain.Card) error {
	if len(cards) == 0 {
		return nil
	}

	return r.tx.RunInTx(ctx, func(ctx context.Context) error {
		batch := &pgx.Batch{}
		for _, c := range cards {
			sql, args, err := insertQuery(c).ToSql()
			if err != nil {
				return fmt.Errorf("build insert card: %w", err)
			}
			batch.Queue(sql, args...)
		}

		results := postgres.QuerierFromCtx(ctx, r.pool).SendBatch(ctx, batch)
		for _, c := range cards {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return postgres.MapError(err, "card", c.ID)
			}
		}
		return results.Close()
	})
}

// Update persists the card's memory state and statistics.
// Returns domain.ErrNotFound when no row has the card's id.
func (r *Repo) Update(ctx context.Context, card *domain.Card) error {
	card.UpdatedAt = time.Now().UTC()

	sql, args, err := psql.Update(table).
		Set("easiness_factor", card.EasinessFactor).
		Set("interval_days", card.Interval).
		Set("repetition", card.Repetition).
		Set("last_review_at", card.LastReview).
		Set("next_review_at", card.NextReview).
		Set("quality", int(card.Quality)).
		Set("total_reviews", card.TotalReviews).
		Set("correct_reviews", card.CorrectReviews).
		Set("avg_response_ms", card.AverageResponseTime).
		Set("tags", tagsOrEmpty(card.Tags)).
		Set("updated_at", card.UpdatedAt).
		Where(squirrel.Eq{"id": card.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update card: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "card", card.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("card %s: %w", card.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a card. Deleting a missing card returns domain.ErrNotFound.
func (r *Repo) Delete(ctx context.Context, cardID uuid.UUID) error {
	sql, args, err := psql.Delete(table).Where(squirrel.Eq{"id": cardID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete card: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "card", cardID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("card %s: %w", cardID, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func insertQuery(c *domain.Card) squirrel.InsertBuilder {
	return psql.Insert(table).
		Columns(columns...).
		Values(
			c.ID, c.DeckID, c.EasinessFactor, c.Interval, c.Repetition,
			c.LastReview, c.NextReview, int(c.Quality),
			c.TotalReviews, c.CorrectReviews, c.AverageResponseTime, tagsOrEmpty(c.Tags),
			c.CreatedAt, c.UpdatedAt,
		)
}

// tagsOrEmpty keeps NOT NULL tags columns from receiving a nil slice.
func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// cardRow mirrors the cards table for scany.
type cardRow struct {
	ID             uuid.UUID  `db:"id"`
	DeckID         uuid.UUID  `db:"deck_id"`
	EasinessFactor float64    `db:"easiness_factor"`
	IntervalDays   int        `db:"interval_days"`
	Repetition     int        `db:"repetition"`
	LastReviewAt   *time.Time `db:"last_review_at"`
	NextReviewAt   time.Time  `db:"next_review_at"`
	Quality        int16      `db:"quality"`
	TotalReviews   int        `db:"total_reviews"`
	CorrectReviews int        `db:"correct_reviews"`
	AvgResponseMs  float64    `db:"avg_response_ms"`
	Tags           []string   `db:"tags"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

func (r *cardRow) toDomain() *domain.Card {
	c := &domain.Card{
		ID:                  r.ID,
		DeckID:              r.DeckID,
		EasinessFactor:      r.EasinessFactor,
		Interval:            r.IntervalDays,
		Repetition:          r.Repetition,
		LastReview:          r.LastReviewAt,
		NextReview:          r.NextReviewAt,
		Quality:             domain.Quality(r.Quality),
		TotalReviews:        r.TotalReviews,
		CorrectReviews:      r.CorrectReviews,
		AverageResponseTime: r.AvgResponseMs,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
	if len(r.Tags) > 0 {
		c.Tags = r.Tags
	}
	return c
}
