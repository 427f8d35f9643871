// README: Turn-over-turn change detection for destination, dates, and activities.
package intent

import (
	"fmt"
	"strings"
)

// FieldChange records a single field modification between turns.
type FieldChange struct {
	Field    string   `json:"field"`
	OldValue string   `json:"old_value,omitempty"`
	NewValue string   `json:"new_value,omitempty"`
	Added    []string `json:"added,omitempty"`
	Removed  []string `json:"removed,omitempty"`
}

// ChangeSet describes what a turn modified. HasChanges is true iff at least
// one of destination, travel date, or activities differs from a prior
// non-empty value.
type ChangeSet struct {
	HasChanges         bool          `json:"has_changes"`
	DestinationChanged bool          `json:"destination_changed"`
	DatesChanged       bool          `json:"dates_changed"`
	ActivitiesChanged  bool          `json:"activities_changed"`
	Changes            []FieldChange `json:"changes,omitempty"`
}

// DetectChanges compares the prior record with the merged result of this
// turn. Destination compares case-insensitively, travel date exactly, and
// activities as a set symmetric difference. A field only counts as changed
// when it had a non-empty prior value.
func DetectChanges(existing, merged Record) ChangeSet {
	var cs ChangeSet

	if existing.Destination != "" && merged.Destination != "" &&
		!strings.EqualFold(existing.Destination, merged.Destination) {
		cs.HasChanges = true
		cs.DestinationChanged = true
		cs.Changes = append(cs.Changes, FieldChange{
			Field:    "destination",
			OldValue: existing.Destination,
			NewValue: merged.Destination,
		})
	}

	if existing.TravelDate != "" && merged.TravelDate != "" &&
		existing.TravelDate != merged.TravelDate {
		cs.HasChanges = true
		cs.DatesChanged = true
		cs.Changes = append(cs.Changes, FieldChange{
			Field:    "travel_date",
			OldValue: existing.TravelDate,
			NewValue: merged.TravelDate,
		})
	}

	added, removed := activityDiff(existing.Activities, merged.Activities)
	if len(existing.Activities) > 0 && (len(added) > 0 || len(removed) > 0) {
		cs.HasChanges = true
		cs.ActivitiesChanged = true
		cs.Changes = append(cs.Changes, FieldChange{
			Field:   "activities",
			Added:   added,
			Removed: removed,
		})
	}

	return cs
}

// Acknowledgment renders the change set as a user-facing sentence, with a
// trailing space so it can prefix whatever message the turn produces. Empty
// when nothing changed.
func (cs ChangeSet) Acknowledgment() string {
	if !cs.HasChanges {
		return ""
	}
	var msgs []string
	for _, c := range cs.Changes {
		switch c.Field {
		case "destination":
			msgs = append(msgs, fmt.Sprintf("I've updated your destination from %s to %s", c.OldValue, c.NewValue))
		case "travel_date":
			msgs = append(msgs, fmt.Sprintf("I've updated your travel dates from %s to %s", c.OldValue, c.NewValue))
		case "activities":
			if len(c.Removed) > 0 {
				msgs = append(msgs, fmt.Sprintf("I've updated your activities (removed: %s; added: %s)",
					strings.Join(c.Removed, ", "), strings.Join(c.Added, ", ")))
			} else {
				msgs = append(msgs, fmt.Sprintf("I've updated your activities to include: %s", strings.Join(c.Added, ", ")))
			}
		}
	}
	if len(msgs) == 0 {
		return ""
	}
	return strings.Join(msgs, ". ") + ". "
}

func activityDiff(old, new []string) (added, removed []string) {
	oldSet := make(map[string]bool, len(old))
	for _, a := range old {
		oldSet[strings.ToLower(a)] = true
	}
	newSet := make(map[string]bool, len(new))
	for _, a := range new {
		newSet[strings.ToLower(a)] = true
		if !oldSet[strings.ToLower(a)] {
			added = append(added, a)
		}
	}
	for _, a := range old {
		if !newSet[strings.ToLower(a)] {
			removed = append(removed, a)
		}
	}
	return added, removed
}
