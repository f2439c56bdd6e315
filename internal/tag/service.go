// AngelaMos | 2026
// service.go

package tag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/circlepicks/backend/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Tag, error) {
	return s.repo.List(ctx)
}

// Create returns the tag for name, creating a custom tag when no tag shares
// its slug. created reports whether a new row was written.
//
// The lookup and insert are not atomic. A concurrent insert of the same slug
// surfaces as ErrDuplicateKey and is resolved by re-reading the winner.
func (s *Service) Create(
	ctx context.Context,
	userID, name string,
) (tag *Tag, created bool, err error) {
	display := strings.TrimSpace(name)
	if display == "" {
		return nil, false, core.Invalid("name is required")
	}
	if utf8.RuneCountInString(display) > 50 {
		return nil, false, core.Invalid("name must be at most 50 characters")
	}

	slug, err := Normalize(display)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.repo.GetBySlug(ctx, slug)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, false, err
	}

	t := &Tag{Slug: slug, DisplayName: display}
	if userID != "" {
		t.CreatedBy = &userID
	}

	if err := s.repo.Create(ctx, t); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			winner, getErr := s.repo.GetBySlug(ctx, slug)
			if getErr != nil {
				return nil, false, getErr
			}
			return winner, false, nil
		}
		return nil, false, err
	}

	return t, true, nil
}

// Resolve maps raw tag names to slugs, lazily creating custom tags. The result
// keeps first-seen order with duplicates removed.
func (s *Service) Resolve(ctx context.Context, userID string, names []string) ([]string, error) {
	seen := make(map[string]struct{}, len(names))
	slugs := make([]string, 0, len(names))

	for _, name := range names {
		t, _, err := s.Create(ctx, userID, name)
		if err != nil {
			return nil, fmt.Errorf("resolve tag %q: %w", name, err)
		}
		if _, dup := seen[t.Slug]; dup {
			continue
		}
		seen[t.Slug] = struct{}{}
		slugs = append(slugs, t.Slug)
	}

	return slugs, nil
}
