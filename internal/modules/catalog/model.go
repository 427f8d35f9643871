// README: Product catalog entity.
package catalog

import "errors"

var ErrNotFound = errors.New("product not found")

// Product is a single sellable variant. Name carries the variant suffix used
// by size filtering, e.g. "Montclair Dress — Black / M".
type Product struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Subcategory    string   `json:"subcategory"`
	Price          float64  `json:"price"`
	Brand          string   `json:"brand"`
	Gender         string   `json:"gender"`
	SizesAvailable []string `json:"sizes_available"`
	Colors         []string `json:"colors"`
	Tags           []string `json:"tags"`
	ImageURL       string   `json:"image_url"`
	InStock        bool     `json:"in_stock"`
	Rating         float64  `json:"rating"`
	Material       string   `json:"material"`
	Season         string   `json:"season"`
}
