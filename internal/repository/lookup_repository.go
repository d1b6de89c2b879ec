package repository

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
)

// Read-only lookups backing the assignment target resolver. A missing or
// soft-deleted row yields (nil, nil): dangling references are rendered blank
// by callers, never treated as failures.

func (r *Repository) UserNameOf(id int) (*string, error) {
	var name string
	found, err := r.GoquDBWrapper.Select("fullname").
		From("users").
		Where(goqu.Ex{"id": id}).
		Executor().ScanVal(&name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &name, nil
}

func (r *Repository) LocationNameOf(id int) (*string, error) {
	var name string
	found, err := r.GoquDBWrapper.Select("name").
		From("locations").
		Where(goqu.Ex{"id": id}).
		Executor().ScanVal(&name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up location %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &name, nil
}

// AssetDescribe composes a short human-readable label for an asset, the tag
// plus the display name when one is set.
func (r *Repository) AssetDescribe(id int) (*string, error) {
	var row struct {
		Tag  string  `db:"tag"`
		Name *string `db:"name"`
	}
	found, err := r.GoquDBWrapper.Select("tag", "name").
		From("assets").
		Where(goqu.Ex{"id": id, "deleted_at": nil}).
		Executor().ScanStruct(&row)
	if err != nil {
		return nil, fmt.Errorf("failed to look up asset %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}

	label := row.Tag
	if row.Name != nil && *row.Name != "" {
		label = fmt.Sprintf("%s (%s)", row.Tag, *row.Name)
	}
	return &label, nil
}
