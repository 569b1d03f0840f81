package catalog

import "time"

// Product is a seller's listing together with its ordered child collections
// and the rating aggregate as last recomputed.
type Product struct {
	ID          string    `db:"id" json:"id"`
	OwnerID     int64     `db:"owner_id" json:"owner_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Price       float64   `db:"price" json:"price"`
	Category    string    `db:"category" json:"category"`
	IsLimited   bool      `db:"is_limited" json:"is_limited"`
	InStock     bool      `db:"in_stock" json:"in_stock"`
	RateScore   float64   `db:"rate_score" json:"rate_score"`
	RateCount   int       `db:"rate_count" json:"rate_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	Images []ProductImage `db:"-" json:"images"`
	Infos  []InfoRow      `db:"-" json:"additional_info"`
}

// ProductImage is one entry of a product's ordered image set. Ordinal is the
// position within the display order and is unique per product.
type ProductImage struct {
	ProductID string `db:"product_id" json:"product_id"`
	Ordinal   int    `db:"ordinal" json:"ordinal"`
	URL       string `db:"image_url" json:"image_url"`
}

// InfoRow is one stored "additional info" entry of a product.
type InfoRow struct {
	ProductID   string `db:"product_id" json:"product_id"`
	Ordinal     int    `db:"ordinal" json:"ordinal"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
}

// InfoEntry is a caller-supplied info entry; its position in the input slice
// becomes the stored ordinal.
type InfoEntry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Rating is a single user's score for a product. At most one row exists per
// (product, user) pair.
type Rating struct {
	ProductID string `db:"product_id" json:"product_id"`
	UserID    int64  `db:"user_id" json:"user_id"`
	Score     int    `db:"score" json:"score"`
}

// ProductFields are the caller-supplied scalar attributes for a new product.
type ProductFields struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	IsLimited   bool    `json:"is_limited"`
	InStock     bool    `json:"in_stock"`
}

// ProductPatch is a partial update. Nil scalar pointers leave the stored value
// untouched. A nil Images or Infos slice leaves the child collection alone; a
// non-nil slice (empty included) fully replaces it.
type ProductPatch struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	Price       *float64    `json:"price,omitempty"`
	Category    *string     `json:"category,omitempty"`
	IsLimited   *bool       `json:"is_limited,omitempty"`
	InStock     *bool       `json:"in_stock,omitempty"`
	Images      []string    `json:"images,omitempty"`
	Infos       []InfoEntry `json:"additional_info,omitempty"`
}
