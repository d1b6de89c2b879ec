package assignment

import (
	"stockroom/pkg/metadata"
)

// Lookup collaborators are read-only; each returns nil when the id no longer
// resolves so a dangling reference renders as a blank label.
type UserLookup interface {
	UserNameOf(id int) (*string, error)
}

type LocationLookup interface {
	LocationNameOf(id int) (*string, error)
}

type AssetLookup interface {
	AssetDescribe(id int) (*string, error)
}

type Lookups interface {
	UserLookup
	LocationLookup
	AssetLookup
}

// Resolver turns an assignment target into its display label.
type Resolver struct {
	lookups Lookups
}

func NewResolver(lookups Lookups) *Resolver {
	return &Resolver{lookups: lookups}
}

// Describe returns the label of the entity a target points at, or nil for an
// unassigned target and for a dangling reference. It has no side effects.
func (r *Resolver) Describe(target metadata.AssignmentTarget) (*string, error) {
	switch target.Kind {
	case metadata.TargetUser:
		return r.lookups.UserNameOf(target.ID)
	case metadata.TargetLocation:
		return r.lookups.LocationNameOf(target.ID)
	case metadata.TargetAsset:
		return r.lookups.AssetDescribe(target.ID)
	case metadata.TargetUnassigned:
		return nil, nil
	default:
		return nil, nil
	}
}
