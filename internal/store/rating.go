package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"bee-market/internal/catalog"
)

// foreignKeyViolation is the Postgres error code raised when a rating
// references a product that does not exist.
const foreignKeyViolation = "23503"

// UpsertResult reports what a rating upsert did. Changed is the signal the
// aggregation engine keys off: false means the stored state is untouched and
// the recompute can be skipped.
type UpsertResult struct {
	Created bool
	Changed bool
}

// UpsertRating inserts or updates the single rating row for (productID,
// userID). The statement is atomic for the pair: concurrent upserts from the
// same user race only on which score is retained, never on row duplication.
// Scores outside [1,5] are rejected before any write, leaving a prior rating
// untouched.
func (s *Store) UpsertRating(ctx context.Context, productID string, userID int64, score int) (UpsertResult, error) {
	if _, _, err := s.codec.Decode(productID); err != nil {
		return UpsertResult{}, err
	}
	if score < 1 || score > 5 {
		return UpsertResult{}, &catalog.ValidationError{Field: "score", Reason: "must be an integer between 1 and 5"}
	}
	if userID <= 0 {
		return UpsertResult{}, &catalog.ValidationError{Field: "user_id", Reason: "is required"}
	}

	// xmax = 0 distinguishes a fresh insert from an overwrite; the DO UPDATE
	// guard makes a same-score upsert return no row at all.
	var created bool
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO "bee-market".ratings (product_id, user_id, score) VALUES ($1, $2, $3) ON CONFLICT (product_id, user_id) DO UPDATE SET score = EXCLUDED.score WHERE ratings.score IS DISTINCT FROM EXCLUDED.score RETURNING (xmax = 0)`,
		productID, userID, score).Scan(&created)
	if errors.Is(err, sql.ErrNoRows) {
		return UpsertResult{}, nil
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return UpsertResult{}, catalog.ErrNotFound
		}
		return UpsertResult{}, storeErr("upsert rating", err)
	}
	return UpsertResult{Created: created, Changed: true}, nil
}

// RemoveRating deletes the rating row if present and reports whether a
// deletion occurred.
func (s *Store) RemoveRating(ctx context.Context, productID string, userID int64) (bool, error) {
	if _, _, err := s.codec.Decode(productID); err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM "bee-market".ratings WHERE product_id = $1 AND user_id = $2`,
		productID, userID)
	if err != nil {
		return false, storeErr("remove rating", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, storeErr("remove rating", err)
	}
	return affected > 0, nil
}

// RatingsByProduct returns every current rating for the product.
func (s *Store) RatingsByProduct(ctx context.Context, productID string) ([]catalog.Rating, error) {
	if _, _, err := s.codec.Decode(productID); err != nil {
		return nil, err
	}

	ratings := []catalog.Rating{}
	err := s.db.SelectContext(ctx, &ratings,
		`SELECT product_id, user_id, score FROM "bee-market".ratings WHERE product_id = $1`,
		productID)
	if err != nil {
		return nil, storeErr("list ratings by product", err)
	}
	return ratings, nil
}

// RatingsByUser returns every rating the user has submitted.
func (s *Store) RatingsByUser(ctx context.Context, userID int64) ([]catalog.Rating, error) {
	ratings := []catalog.Rating{}
	err := s.db.SelectContext(ctx, &ratings,
		`SELECT product_id, user_id, score FROM "bee-market".ratings WHERE user_id = $1`,
		userID)
	if err != nil {
		return nil, storeErr("list ratings by user", err)
	}
	return ratings, nil
}

// RatedProductIDs returns the identifiers of every product the user has
// rated, in one query. Listing callers use it to flag already-rated results.
func (s *Store) RatedProductIDs(ctx context.Context, userID int64) ([]string, error) {
	ids := []string{}
	err := s.db.SelectContext(ctx, &ids,
		`SELECT product_id FROM "bee-market".ratings WHERE user_id = $1`,
		userID)
	if err != nil {
		return nil, storeErr("list rated product ids", err)
	}
	return ids, nil
}
