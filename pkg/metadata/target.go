package metadata

import (
	"fmt"
	"strings"
)

// TargetKind identifies who or what an asset or license seat is assigned to.
// The empty kind means "unassigned".
type TargetKind string

const (
	TargetUser       TargetKind = "user"
	TargetLocation   TargetKind = "location"
	TargetAsset      TargetKind = "asset"
	TargetUnassigned TargetKind = ""
)

func NewTargetKind(value string) (TargetKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	kind := TargetKind(normalized)
	if !kind.IsValid() {
		return "", fmt.Errorf(
			"invalid target kind %q, only valid values are: %s, %s, %s",
			value, TargetUser, TargetLocation, TargetAsset,
		)
	}
	return kind, nil
}

func (k TargetKind) IsValid() bool {
	switch k {
	case TargetUser, TargetLocation, TargetAsset, TargetUnassigned:
		return true
	default:
		return false
	}
}

func (k TargetKind) IsAssigned() bool {
	return k != TargetUnassigned
}

func (k TargetKind) String() string {
	return string(k)
}

// AssignmentTarget is a closed variant over the assignable target kinds.
// An unassigned target carries no id; every assigned kind carries the id of
// the referenced entity.
type AssignmentTarget struct {
	Kind TargetKind `json:"kind"`
	ID   int        `json:"id"`
}

func Unassigned() AssignmentTarget {
	return AssignmentTarget{Kind: TargetUnassigned}
}

func UserTarget(id int) AssignmentTarget {
	return AssignmentTarget{Kind: TargetUser, ID: id}
}

func LocationTarget(id int) AssignmentTarget {
	return AssignmentTarget{Kind: TargetLocation, ID: id}
}

func AssetTarget(id int) AssignmentTarget {
	return AssignmentTarget{Kind: TargetAsset, ID: id}
}

// Validate enforces the kind/id pairing: an unassigned target must not carry
// an id, and every assigned kind must reference a positive id.
func (t AssignmentTarget) Validate() error {
	if !t.Kind.IsValid() {
		return fmt.Errorf("invalid target kind: %q", t.Kind)
	}
	if t.Kind == TargetUnassigned {
		if t.ID != 0 {
			return fmt.Errorf("unassigned target must not carry an id, got %d", t.ID)
		}
		return nil
	}
	if t.ID <= 0 {
		return fmt.Errorf("target kind %s requires a positive id, got %d", t.Kind, t.ID)
	}
	return nil
}

func (t AssignmentTarget) IsAssigned() bool {
	return t.Kind.IsAssigned()
}
