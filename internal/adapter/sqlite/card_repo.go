package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/heartmarshall/flashcard-scheduler/internal/domain"
)

// timeLayout is fixed width so TEXT ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const table = "cards"

var columns = []string{
	"id", "deck_id", "easiness_factor", "interval_days", "repetition",
	"last_review_at", "next_review_at", "quality",
	"total_reviews", "correct_reviews", "avg_response_ms", "tags",
	"created_at", "updated_at",
}

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// CardRepo provides card persistence backed by SQLite.
type CardRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewCardRepo creates a new card repository over an open, migrated db.
func NewCardRepo(db *sql.DB) *CardRepo {
	return &CardRepo{db: db, now: time.Now}
}

// GetAll returns every card, ordered by next review.
func (r *CardRepo) GetAll(ctx context.Context) ([]*domain.Card, error) {
	return r.list(ctx, builder.Select(columns...).From(table).OrderBy("next_review_at ASC", "id ASC"))
}

// GetByDeck returns the cards of one deck, ordered by next review.
func (r *CardRepo) GetByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	query := builder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"deck_id": deckID.String()}).
		OrderBy("next_review_at ASC", "id ASC")
	return r.list(ctx, query)
}

// GetByID returns a card by primary key.
func (r *CardRepo) GetByID(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	query, args, err := builder.Select(columns...).From(table).Where(squirrel.Eq{"id": cardID.String()}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get card: %w", err)
	}

	card, err := scanCard(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, "card", cardID)
	}
	return card, nil
}

// LeechCardIDs returns the ids of every card tagged as a leech.
func (r *CardRepo) LeechCardIDs(ctx context.Context) ([]uuid.UUID, error) {
	query, args, err := builder.Select("id").
		From(table).
		Where("EXISTS (SELECT 1 FROM json_each(cards.tags) WHERE json_each.value = ?)", domain.LeechTag).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build leech ids: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leech ids: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan leech id: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse leech id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leech ids: %w", err)
	}
	return ids, nil
}

func (r *CardRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]*domain.Card, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list cards: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	cards := make([]*domain.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return cards, nil
}

// Create inserts a new card.
func (r *CardRepo) Create(ctx context.Context, card *domain.Card) error {
	query, args, err := insertQuery(card)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return mapError(err, "card", card.ID)
	}
	return nil
}

// CreateBatch inserts all cards in one transaction; either all are stored
// or none are.
func (r *CardRepo) CreateBatch(ctx context.Context, cards []*domain.Card) (err error) {
	if len(cards) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, c := range cards {
		query, args, err := insertQuery(c)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return mapError(err, "card", c.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Update persists the card's memory state and statistics.
// Returns domain.ErrNotFound when no row has the card's id.
func (r *CardRepo) Update(ctx context.Context, card *domain.Card) error {
	tags, err := encodeTags(card.Tags)
	if err != nil {
		return err
	}
	card.UpdatedAt = r.now().UTC()

	query, args, err := builder.Update(table).
		Set("easiness_factor", card.EasinessFactor).
		Set("interval_days", card.Interval).
		Set("repetition", card.Repetition).
		Set("last_review_at", formatTimePtr(card.LastReview)).
		Set("next_review_at", formatTime(card.NextReview)).
		Set("quality", int(card.Quality)).
		Set("total_reviews", card.TotalReviews).
		Set("correct_reviews", card.CorrectReviews).
		Set("avg_response_ms", card.AverageResponseTime).
		Set("tags", tags).
		Set("updated_at", formatTime(card.UpdatedAt)).
		Where(squirrel.Eq{"id": card.ID.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update card: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, "card", card.ID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update card %s: rows affected: %w", card.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("card %s: %w", card.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a card. Deleting a missing card returns domain.ErrNotFound.
func (r *CardRepo) Delete(ctx context.Context, cardID uuid.UUID) error {
	query, args, err := builder.Delete(table).Where(squirrel.Eq{"id": cardID.String()}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete card: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, "card", cardID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete card %s: rows affected: %w", cardID, err)
	}
	if n == 0 {
		return fmt.Errorf("card %s: %w", cardID, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Encoding
// ---------------------------------------------------------------------------

func insertQuery(c *domain.Card) (string, []any, error) {
	tags, err := encodeTags(c.Tags)
	if err != nil {
		return "", nil, err
	}
	query, args, err := builder.Insert(table).
		Columns(columns...).
		Values(
			c.ID.String(), c.DeckID.String(), c.EasinessFactor, c.Interval, c.Repetition,
			formatTimePtr(c.LastReview), formatTime(c.NextReview), int(c.Quality),
			c.TotalReviews, c.CorrectReviews, c.AverageResponseTime, tags,
			formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
		).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build insert card: %w", err)
	}
	return query, args, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(row scanner) (*domain.Card, error) {
	var (
		c                            domain.Card
		id, deckID, nextReview, tags string
		createdAt, updatedAt         string
		lastReview                   sql.NullString
		quality                      int
	)
	err := row.Scan(
		&id, &deckID, &c.EasinessFactor, &c.Interval, &c.Repetition,
		&lastReview, &nextReview, &quality,
		&c.TotalReviews, &c.CorrectReviews, &c.AverageResponseTime, &tags,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if c.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse id: %w", err)
	}
	if c.DeckID, err = uuid.Parse(deckID); err != nil {
		return nil, fmt.Errorf("parse deck_id: %w", err)
	}
	if lastReview.Valid {
		t, err := parseTime(lastReview.String)
		if err != nil {
			return nil, fmt.Errorf("parse last_review_at: %w", err)
		}
		c.LastReview = &t
	}
	if c.NextReview, err = parseTime(nextReview); err != nil {
		return nil, fmt.Errorf("parse next_review_at: %w", err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
		return nil, fmt.Errorf("parse tags: %w", err)
	}
	if len(c.Tags) == 0 {
		c.Tags = nil
	}
	c.Quality = domain.Quality(quality)
	return &c, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
