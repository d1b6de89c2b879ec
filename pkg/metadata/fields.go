package metadata

// FieldChannel names one of the alternative assignee input channels. Exactly
// one channel may hold a value for a given target kind; the others must be
// cleared whenever the kind changes.
type FieldChannel string

const (
	FieldUser     FieldChannel = "user"
	FieldLocation FieldChannel = "location"
	FieldAsset    FieldChannel = "asset"
)

// FieldRules tells a caller which assignee channel is active for the selected
// target kind. Enabled and Required always name the same single channel;
// Cleared lists the channels whose values must be dropped.
type FieldRules struct {
	Enabled  []FieldChannel
	Required []FieldChannel
	Cleared  []FieldChannel
}

// FieldsFor derives the channel rules for an asset assignment. It is a pure
// function of the kind and must be re-applied on every kind change so the
// rules are never stale.
func FieldsFor(kind TargetKind) FieldRules {
	switch kind {
	case TargetUser:
		return rulesFor(FieldUser)
	case TargetLocation:
		return rulesFor(FieldLocation)
	case TargetAsset:
		return rulesFor(FieldAsset)
	default:
		return FieldRules{Cleared: []FieldChannel{FieldUser, FieldLocation, FieldAsset}}
	}
}

// SeatFieldsFor derives the channel rules for a license seat assignment.
// Seats can never be assigned to a location.
func SeatFieldsFor(kind TargetKind) FieldRules {
	rules := FieldsFor(kind)
	if kind == TargetLocation {
		return FieldRules{Cleared: []FieldChannel{FieldUser, FieldLocation, FieldAsset}}
	}
	return rules
}

func rulesFor(active FieldChannel) FieldRules {
	cleared := make([]FieldChannel, 0, 2)
	for _, channel := range []FieldChannel{FieldUser, FieldLocation, FieldAsset} {
		if channel != active {
			cleared = append(cleared, channel)
		}
	}
	return FieldRules{
		Enabled:  []FieldChannel{active},
		Required: []FieldChannel{active},
		Cleared:  cleared,
	}
}
