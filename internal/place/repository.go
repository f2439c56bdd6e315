// AngelaMos | 2026
// repository.go

package place

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/circlepicks/backend/internal/core"
)

type Repository interface {
	Search(ctx context.Context, q, city string, limit int) ([]Place, error)
	GetByID(ctx context.Context, id string) (*Place, error)
	GetByGooglePlaceID(ctx context.Context, googlePlaceID string) (*Place, error)
	Create(ctx context.Context, p *Place) error
	FindExactCustom(ctx context.Context, name, city, country string) (*Place, error)
	FindPartial(ctx context.Context, name, city, excludeID string, limit int) ([]Place, error)
	CountActive(ctx context.Context, placeIDs []string) (map[string]int, error)
	ActiveFacets(ctx context.Context, placeID string) ([]Facet, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const placeColumns = `
	id, name, city, country, address, lat, lng, google_place_id, custom,
	created_by, created_at`

func (r *repository) Search(ctx context.Context, q, city string, limit int) ([]Place, error) {
	query := `SELECT ` + placeColumns + `
		FROM places
		WHERE ($1::text = '' OR name ILIKE '%' || $1::text || '%')
		  AND ($2::text = '' OR lower(city) = lower($2))
		ORDER BY name ASC
		LIMIT $3`

	places := []Place{}
	if err := r.db.SelectContext(ctx, &places, query,
		core.EscapeLike(q), city, limit); err != nil {
		return nil, fmt.Errorf("search places: %w", err)
	}
	return places, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Place, error) {
	return r.getOne(ctx, "get place", `SELECT `+placeColumns+` FROM places WHERE id = $1`, id)
}

func (r *repository) GetByGooglePlaceID(ctx context.Context, googlePlaceID string) (*Place, error) {
	return r.getOne(ctx, "get place by google id",
		`SELECT `+placeColumns+` FROM places WHERE google_place_id = $1`, googlePlaceID)
}

func (r *repository) Create(ctx context.Context, p *Place) error {
	query := `
		INSERT INTO places (
			name, city, country, address, lat, lng, google_place_id, custom, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.Name,
		p.City,
		p.Country,
		p.Address,
		p.Lat,
		p.Lng,
		p.GooglePlaceID,
		p.Custom,
		p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return core.MapWriteError("create place", err)
	}
	return nil
}

func (r *repository) FindExactCustom(
	ctx context.Context,
	name, city, country string,
) (*Place, error) {
	query := `SELECT ` + placeColumns + `
		FROM places
		WHERE custom
		  AND lower(name) = lower($1)
		  AND lower(city) = lower($2)
		  AND lower(country) = lower($3)
		ORDER BY created_at ASC
		LIMIT 1`

	return r.getOne(ctx, "find exact place", query, name, city, country)
}

func (r *repository) FindPartial(
	ctx context.Context,
	name, city, excludeID string,
	limit int,
) ([]Place, error) {
	query := `SELECT ` + placeColumns + `
		FROM places
		WHERE name ILIKE '%' || $1::text || '%'
		  AND lower(city) = lower($2)
		  AND id::text <> $3
		ORDER BY name ASC
		LIMIT $4`

	places := []Place{}
	if err := r.db.SelectContext(ctx, &places, query,
		core.EscapeLike(name), city, excludeID, limit); err != nil {
		return nil, fmt.Errorf("find partial places: %w", err)
	}
	return places, nil
}

func (r *repository) CountActive(ctx context.Context, placeIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(placeIDs))
	if len(placeIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT place_id, COUNT(*) AS n
		FROM experiences
		WHERE status = 'active' AND place_id = ANY($1::uuid[])
		GROUP BY place_id`

	var rows []struct {
		PlaceID string `db:"place_id"`
		N       int    `db:"n"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(placeIDs)); err != nil {
		return nil, fmt.Errorf("count active experiences: %w", err)
	}

	for _, row := range rows {
		counts[row.PlaceID] = row.N
	}
	return counts, nil
}

func (r *repository) ActiveFacets(ctx context.Context, placeID string) ([]Facet, error) {
	query := `
		SELECT price_range, tags
		FROM experiences
		WHERE place_id = $1 AND status = 'active'`

	facets := []Facet{}
	if err := r.db.SelectContext(ctx, &facets, query, placeID); err != nil {
		return nil, fmt.Errorf("list place facets: %w", err)
	}
	return facets, nil
}

func (r *repository) getOne(ctx context.Context, op, query string, args ...any) (*Place, error) {
	var p Place
	err := r.db.GetContext(ctx, &p, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}
