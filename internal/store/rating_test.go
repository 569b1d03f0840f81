package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"bee-market/internal/catalog"
)

const upsertQuery = `INSERT INTO "bee-market".ratings (product_id, user_id, score) VALUES ($1, $2, $3) ON CONFLICT (product_id, user_id) DO UPDATE SET score = EXCLUDED.score WHERE ratings.score IS DISTINCT FROM EXCLUDED.score RETURNING (xmax = 0)`

func TestUpsertRating_CreatesNewRow(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(upsertQuery)).
		WithArgs("7-42", int64(3), 5).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(true))

	result, err := s.UpsertRating(context.Background(), "7-42", 3, 5)
	if err != nil {
		t.Fatalf("UpsertRating failed: %v", err)
	}
	if !result.Created || !result.Changed {
		t.Errorf("expected created and changed, got %+v", result)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestUpsertRating_UpdatesExistingRow(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(upsertQuery)).
		WithArgs("7-42", int64(3), 4).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(false))

	result, err := s.UpsertRating(context.Background(), "7-42", 3, 4)
	if err != nil {
		t.Fatalf("UpsertRating failed: %v", err)
	}
	if result.Created || !result.Changed {
		t.Errorf("expected changed but not created, got %+v", result)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestUpsertRating_SameScoreReportsUnchanged(t *testing.T) {
	s, mock := newTestStore(t)

	// The guarded DO UPDATE returns no row when the stored score already
	// matches.
	mock.ExpectQuery(regexp.QuoteMeta(upsertQuery)).
		WithArgs("7-42", int64(3), 4).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	result, err := s.UpsertRating(context.Background(), "7-42", 3, 4)
	if err != nil {
		t.Fatalf("UpsertRating failed: %v", err)
	}
	if result.Created || result.Changed {
		t.Errorf("expected unchanged result, got %+v", result)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestUpsertRating_RejectsOutOfRangeScore(t *testing.T) {
	s, mock := newTestStore(t)

	for _, score := range []int{0, 6, -3} {
		_, err := s.UpsertRating(context.Background(), "7-42", 3, score)
		var ve *catalog.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("score %d: expected ValidationError, got %v", score, err)
		}
	}

	// The prior rating must be untouched: nothing reaches the database.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database activity: %v", err)
	}
}

func TestUpsertRating_UnknownProduct(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(upsertQuery)).
		WithArgs("7-99", int64(3), 5).
		WillReturnError(&pq.Error{Code: "23503"})

	_, err := s.UpsertRating(context.Background(), "7-99", 3, 5)
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestRemoveRating(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "bee-market".ratings WHERE product_id = $1 AND user_id = $2`)).
		WithArgs("7-42", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "bee-market".ratings WHERE product_id = $1 AND user_id = $2`)).
		WithArgs("7-42", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := s.RemoveRating(context.Background(), "7-42", 3)
	if err != nil {
		t.Fatalf("RemoveRating failed: %v", err)
	}
	if !removed {
		t.Error("expected removal to be reported")
	}

	removed, err = s.RemoveRating(context.Background(), "7-42", 3)
	if err != nil {
		t.Fatalf("RemoveRating failed: %v", err)
	}
	if removed {
		t.Error("expected no removal on second call")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestRatingsByProduct(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT product_id, user_id, score FROM "bee-market".ratings WHERE product_id = $1`)).
		WithArgs("7-42").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "user_id", "score"}).
			AddRow("7-42", int64(3), 3).
			AddRow("7-42", int64(4), 5))

	ratings, err := s.RatingsByProduct(context.Background(), "7-42")
	if err != nil {
		t.Fatalf("RatingsByProduct failed: %v", err)
	}
	if len(ratings) != 2 {
		t.Fatalf("expected 2 ratings, got %d", len(ratings))
	}
	if ratings[0].UserID != 3 || ratings[0].Score != 3 {
		t.Errorf("unexpected first rating: %+v", ratings[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestRatedProductIDs(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT product_id FROM "bee-market".ratings WHERE user_id = $1`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}).AddRow("7-42").AddRow("8-1"))

	ids, err := s.RatedProductIDs(context.Background(), 3)
	if err != nil {
		t.Fatalf("RatedProductIDs failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "7-42" || ids[1] != "8-1" {
		t.Errorf("unexpected ids: %v", ids)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}
