package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"bee-market/internal/catalog"
	"bee-market/internal/query"
)

const productColumns = "id, owner_id, name, description, price, category, is_limited, in_stock, rate_score, rate_count, created_at, updated_at"

// CreateProduct validates fields, then inserts the product row and every
// image and info row as one atomic unit. The input position of each child
// becomes its stored ordinal. Returns the newly assigned public identifier.
func (s *Store) CreateProduct(ctx context.Context, ownerID int64, fields catalog.ProductFields, images []string, infos []catalog.InfoEntry) (string, error) {
	if ownerID <= 0 {
		return "", &catalog.ValidationError{Field: "owner_id", Reason: "is required"}
	}
	if err := validateFields(fields); err != nil {
		return "", err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", storeErr("begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// The ON CONFLICT increment takes a row lock on the owner's sequence row,
	// so two concurrent creates for one owner always see distinct codes.
	var seq int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO "bee-market".owner_sequences (owner_id, next_code) VALUES ($1, 1) ON CONFLICT (owner_id) DO UPDATE SET next_code = owner_sequences.next_code + 1 RETURNING next_code`,
		ownerID).Scan(&seq)
	if err != nil {
		return "", storeErr("allocate product sequence", err)
	}

	id, err := s.codec.Encode(ownerID, seq)
	if err != nil {
		return "", err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO "bee-market".products (id, owner_id, seq_code, name, description, price, category, is_limited, in_stock) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, ownerID, seq,
		strings.TrimSpace(fields.Name), strings.TrimSpace(fields.Description),
		fields.Price, strings.TrimSpace(fields.Category),
		fields.IsLimited, fields.InStock)
	if err != nil {
		return "", storeErr("insert product", err)
	}

	if err := insertImages(ctx, tx, id, images); err != nil {
		return "", err
	}
	if err := insertInfos(ctx, tx, id, infos); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", storeErr("commit product create", err)
	}
	return id, nil
}

// GetProduct returns the product with images and info entries ordered by
// ordinal ascending and the aggregate as last recomputed.
func (s *Store) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	if _, _, err := s.codec.Decode(id); err != nil {
		return nil, err
	}

	var p catalog.Product
	err := s.db.GetContext(ctx, &p,
		`SELECT `+productColumns+` FROM "bee-market".products WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("get product", err)
	}

	err = s.db.SelectContext(ctx, &p.Images,
		`SELECT product_id, ordinal, image_url FROM "bee-market".product_images WHERE product_id = $1 ORDER BY ordinal`, id)
	if err != nil {
		return nil, storeErr("load product images", err)
	}
	err = s.db.SelectContext(ctx, &p.Infos,
		`SELECT product_id, ordinal, title, description FROM "bee-market".additional_info WHERE product_id = $1 ORDER BY ordinal`, id)
	if err != nil {
		return nil, storeErr("load additional info", err)
	}
	return &p, nil
}

// ListProducts applies the filter and sort predicate, then loads children for
// the whole result set in one batched query per collection. Aggregates come
// straight off the matched rows.
func (s *Store) ListProducts(ctx context.Context, f query.Filter, sort query.Sort) ([]catalog.Product, error) {
	pred := query.Build(f, sort)

	products := []catalog.Product{}
	q := `SELECT ` + productColumns + ` FROM "bee-market".products ` + pred.Where + ` ` + pred.OrderBy
	if err := s.db.SelectContext(ctx, &products, q, pred.Args...); err != nil {
		return nil, storeErr("list products", err)
	}
	if len(products) == 0 {
		return products, nil
	}

	ids := make([]string, len(products))
	index := make(map[string]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
		index[p.ID] = i
	}

	var images []catalog.ProductImage
	err := s.db.SelectContext(ctx, &images,
		`SELECT product_id, ordinal, image_url FROM "bee-market".product_images WHERE product_id = ANY($1) ORDER BY product_id, ordinal`,
		pq.Array(ids))
	if err != nil {
		return nil, storeErr("load product images", err)
	}
	for _, img := range images {
		i := index[img.ProductID]
		products[i].Images = append(products[i].Images, img)
	}

	var infos []catalog.InfoRow
	err = s.db.SelectContext(ctx, &infos,
		`SELECT product_id, ordinal, title, description FROM "bee-market".additional_info WHERE product_id = ANY($1) ORDER BY product_id, ordinal`,
		pq.Array(ids))
	if err != nil {
		return nil, storeErr("load additional info", err)
	}
	for _, info := range infos {
		i := index[info.ProductID]
		products[i].Infos = append(products[i].Infos, info)
	}

	return products, nil
}

// UpdateProduct applies a partial update. Scalar fields present in the patch
// replace the stored values; a present image or info slice fully replaces the
// existing child rows with fresh ordinals. Everything runs in one transaction
// and a failure at any point rolls back the whole call.
func (s *Store) UpdateProduct(ctx context.Context, id string, patch catalog.ProductPatch) error {
	if _, _, err := s.codec.Decode(id); err != nil {
		return err
	}
	if patch.Price != nil && *patch.Price < 0 {
		return &catalog.ValidationError{Field: "price", Reason: "cannot be negative"}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeErr("begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Lock the row so the scalar patch and both child replacements land
	// against the same product state.
	var locked string
	err = tx.QueryRowContext(ctx, `SELECT id FROM "bee-market".products WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.ErrNotFound
	}
	if err != nil {
		return storeErr("lock product", err)
	}

	sets := []string{"updated_at = now()"}
	var args []interface{}
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		set("name", strings.TrimSpace(*patch.Name))
	}
	if patch.Description != nil {
		set("description", strings.TrimSpace(*patch.Description))
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.Category != nil {
		set("category", strings.TrimSpace(*patch.Category))
	}
	if patch.IsLimited != nil {
		set("is_limited", *patch.IsLimited)
	}
	if patch.InStock != nil {
		set("in_stock", *patch.InStock)
	}

	args = append(args, id)
	updateSQL := fmt.Sprintf(`UPDATE "bee-market".products SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	if _, err := tx.ExecContext(ctx, updateSQL, args...); err != nil {
		return storeErr("update product", err)
	}

	if patch.Images != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM "bee-market".product_images WHERE product_id = $1`, id); err != nil {
			return storeErr("delete product images", err)
		}
		if err := insertImages(ctx, tx, id, patch.Images); err != nil {
			return err
		}
	}

	if patch.Infos != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM "bee-market".additional_info WHERE product_id = $1`, id); err != nil {
			return storeErr("delete additional info", err)
		}
		if err := insertInfos(ctx, tx, id, patch.Infos); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit product update", err)
	}
	return nil
}

// DeleteProduct removes the product row and every dependent image, info, and
// rating row itself; it never relies on storage-level cascades, so no orphan
// child rows remain on any backend.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	if _, _, err := s.codec.Decode(id); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeErr("begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM "bee-market".product_images WHERE product_id = $1`, id); err != nil {
		return storeErr("delete product images", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM "bee-market".additional_info WHERE product_id = $1`, id); err != nil {
		return storeErr("delete additional info", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM "bee-market".ratings WHERE product_id = $1`, id); err != nil {
		return storeErr("delete ratings", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM "bee-market".products WHERE id = $1`, id)
	if err != nil {
		return storeErr("delete product", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storeErr("delete product", err)
	}
	if affected == 0 {
		return catalog.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit product delete", err)
	}
	return nil
}

func validateFields(fields catalog.ProductFields) error {
	if strings.TrimSpace(fields.Name) == "" {
		return &catalog.ValidationError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(fields.Description) == "" {
		return &catalog.ValidationError{Field: "description", Reason: "is required"}
	}
	if fields.Price < 0 {
		return &catalog.ValidationError{Field: "price", Reason: "cannot be negative"}
	}
	if strings.TrimSpace(fields.Category) == "" {
		return &catalog.ValidationError{Field: "category", Reason: "is required"}
	}
	return nil
}

func insertImages(ctx context.Context, tx *sqlx.Tx, productID string, images []string) error {
	for i, url := range images {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO "bee-market".product_images (product_id, ordinal, image_url) VALUES ($1, $2, $3)`,
			productID, i, url)
		if err != nil {
			return storeErr("insert product image", err)
		}
	}
	return nil
}

func insertInfos(ctx context.Context, tx *sqlx.Tx, productID string, infos []catalog.InfoEntry) error {
	for i, info := range infos {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO "bee-market".additional_info (product_id, ordinal, title, description) VALUES ($1, $2, $3, $4)`,
			productID, i, info.Title, info.Description)
		if err != nil {
			return storeErr("insert additional info", err)
		}
	}
	return nil
}
