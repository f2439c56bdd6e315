// AngelaMos | 2026
// entity.go

package place

import (
	"time"

	"github.com/lib/pq"
)

type Place struct {
	ID            string    `db:"id"              json:"id"`
	Name          string    `db:"name"            json:"name"`
	City          string    `db:"city"            json:"city"`
	Country       string    `db:"country"         json:"country"`
	Address       *string   `db:"address"         json:"address"`
	Lat           *float64  `db:"lat"             json:"lat"`
	Lng           *float64  `db:"lng"             json:"lng"`
	GooglePlaceID *string   `db:"google_place_id" json:"google_place_id"`
	Custom        bool      `db:"custom"          json:"custom"`
	CreatedBy     *string   `db:"created_by"      json:"created_by"`
	CreatedAt     time.Time `db:"created_at"      json:"created_at"`
}

// Facet is the slice of an active experience that place stats aggregate over.
type Facet struct {
	PriceRange string         `db:"price_range"`
	Tags       pq.StringArray `db:"tags"`
}
