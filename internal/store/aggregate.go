package store

import (
	"context"
	"math"

	"bee-market/internal/catalog"
)

// Aggregate is the materialized rating summary persisted on the product row.
type Aggregate struct {
	Score float64
	Count int
}

// RecomputeRating reads every current rating for the product, derives the
// mean (two fractional digits) and count, and persists both onto the product
// row. Zero ratings yields {0, 0}. The read-compute-write sequence is not
// locked over the product row: of two concurrent recomputes, the last writer
// wins, and the aggregate catches up on the next mutation.
func (s *Store) RecomputeRating(ctx context.Context, productID string) (Aggregate, error) {
	ratings, err := s.RatingsByProduct(ctx, productID)
	if err != nil {
		return Aggregate{}, err
	}

	var agg Aggregate
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r.Score
		}
		agg.Count = len(ratings)
		agg.Score = math.Round(float64(sum)/float64(agg.Count)*100) / 100
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE "bee-market".products SET rate_score = $1, rate_count = $2 WHERE id = $3`,
		agg.Score, agg.Count, productID)
	if err != nil {
		return Aggregate{}, storeErr("persist rating aggregate", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Aggregate{}, storeErr("persist rating aggregate", err)
	}
	if affected == 0 {
		return Aggregate{}, catalog.ErrNotFound
	}
	return agg, nil
}

// RateProduct upserts the user's rating and, unless the upsert reports the
// score unchanged, synchronously recomputes the product's aggregate before
// returning. Preventing owners from rating their own product is the calling
// layer's check, not the ledger's.
func (s *Store) RateProduct(ctx context.Context, productID string, userID int64, score int) (UpsertResult, error) {
	result, err := s.UpsertRating(ctx, productID, userID, score)
	if err != nil {
		return UpsertResult{}, err
	}
	if result.Changed {
		if _, err := s.RecomputeRating(ctx, productID); err != nil {
			return result, err
		}
	}
	return result, nil
}

// UnrateProduct removes the user's rating and recomputes the aggregate when a
// row was actually deleted. Reports whether a deletion occurred.
func (s *Store) UnrateProduct(ctx context.Context, productID string, userID int64) (bool, error) {
	removed, err := s.RemoveRating(ctx, productID, userID)
	if err != nil || !removed {
		return removed, err
	}
	if _, err := s.RecomputeRating(ctx, productID); err != nil {
		return true, err
	}
	return true, nil
}
