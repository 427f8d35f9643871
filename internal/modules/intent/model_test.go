package intent

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestMergeOverwritesOnlyPresentFields(t *testing.T) {
	existing := Record{
		Destination: "Paris",
		TravelDate:  "2026-09-01",
		Activities:  []string{"hiking"},
	}
	delta := Delta{
		Destination: strPtr("Tokyo"),
		Activities:  []string{"hiking", "skiing"},
	}
	merged := Merge(existing, delta)

	if merged.Destination != "Tokyo" {
		t.Errorf("destination = %q, want Tokyo", merged.Destination)
	}
	if merged.TravelDate != "2026-09-01" {
		t.Errorf("travel date erased by nil delta field: %q", merged.TravelDate)
	}
	if !reflect.DeepEqual(merged.Activities, []string{"hiking", "skiing"}) {
		t.Errorf("activities = %v", merged.Activities)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	existing := Record{Destination: "Oslo"}
	delta := Delta{
		TravelDate:   strPtr("2026-10-10"),
		BudgetAmount: f64Ptr(200),
		Activities:   []string{"Skiing", "skiing", "hiking"},
	}
	once := Merge(existing, delta)
	twice := Merge(once, delta)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merge not idempotent:\nonce  = %+v\ntwice = %+v", once, twice)
	}
	if !reflect.DeepEqual(once.Activities, []string{"Skiing", "hiking"}) {
		t.Errorf("activities not deduped case-insensitively: %v", once.Activities)
	}
}

func TestAddActivityDedupes(t *testing.T) {
	r := Record{Activities: []string{"Hiking"}}
	if r.AddActivity("hiking") {
		t.Error("case-insensitive duplicate was added")
	}
	if !r.AddActivity("skiing") {
		t.Error("new activity rejected")
	}
	if len(r.Activities) != 2 {
		t.Errorf("activities = %v", r.Activities)
	}
}

func TestHasDate(t *testing.T) {
	var r Record
	if r.HasDate() {
		t.Error("empty record reports a date")
	}
	r.TripSegments = []Segment{{Destination: "Lyon", StartDate: "2026-09-01", EndDate: "2026-09-03"}}
	if !r.HasDate() {
		t.Error("segments should count as date info")
	}
}

func TestDetectChangesDestination(t *testing.T) {
	old := Record{Destination: "Paris"}
	cs := DetectChanges(old, Record{Destination: "Tokyo"})
	if !cs.HasChanges || !cs.DestinationChanged {
		t.Fatalf("change not detected: %+v", cs)
	}
	want := "I've updated your destination from Paris to Tokyo. "
	if got := cs.Acknowledgment(); got != want {
		t.Errorf("ack = %q, want %q", got, want)
	}

	// Same destination with different casing is not a change.
	cs = DetectChanges(old, Record{Destination: "PARIS"})
	if cs.HasChanges {
		t.Errorf("case-only difference flagged as change: %+v", cs)
	}

	// No prior value means nothing to acknowledge.
	cs = DetectChanges(Record{}, Record{Destination: "Tokyo"})
	if cs.HasChanges {
		t.Errorf("initial fill flagged as change: %+v", cs)
	}
}

func TestDetectChangesActivities(t *testing.T) {
	old := Record{Activities: []string{"hiking", "museums"}}
	cs := DetectChanges(old, Record{Activities: []string{"hiking", "skiing"}})
	if !cs.ActivitiesChanged {
		t.Fatalf("activity change not detected: %+v", cs)
	}
	want := "I've updated your activities (removed: museums; added: skiing). "
	if got := cs.Acknowledgment(); got != want {
		t.Errorf("ack = %q, want %q", got, want)
	}

	cs = DetectChanges(old, Record{Activities: []string{"hiking", "museums", "skiing"}})
	if got, want := cs.Acknowledgment(), "I've updated your activities to include: skiing. "; got != want {
		t.Errorf("ack = %q, want %q", got, want)
	}
}

func TestDetectChangesMultiple(t *testing.T) {
	old := Record{Destination: "Paris", TravelDate: "2026-09-01"}
	cs := DetectChanges(old, Record{Destination: "Tokyo", TravelDate: "2026-10-01"})
	if len(cs.Changes) != 2 {
		t.Fatalf("changes = %+v", cs.Changes)
	}
	want := "I've updated your destination from Paris to Tokyo. I've updated your travel dates from 2026-09-01 to 2026-10-01. "
	if got := cs.Acknowledgment(); got != want {
		t.Errorf("ack = %q, want %q", got, want)
	}
}

func TestBuildNormalizedRecordWins(t *testing.T) {
	base := Normalized{Location: "wherever the model guessed", BudgetMax: 50, Keywords: []string{"jacket"}}
	rec := Record{
		Destination:    "Reykjavik",
		TravelDate:     "2026-11-20",
		Activities:     []string{"hiking", "jacket"},
		BudgetAmount:   300,
		PreferredBrand: "Arcade",
		PreferredSize:  "M",
		Clothes:        "casual",
	}
	n := BuildNormalized(base, rec, "something warm please")

	if n.Location != "Reykjavik" {
		t.Errorf("location = %q", n.Location)
	}
	if n.Occasion != "travel on 2026-11-20" {
		t.Errorf("occasion = %q", n.Occasion)
	}
	if n.BudgetMax != 300 {
		t.Errorf("budget = %v", n.BudgetMax)
	}
	if !reflect.DeepEqual(n.Keywords, []string{"jacket", "hiking"}) {
		t.Errorf("keywords = %v", n.Keywords)
	}
	if n.Brand != "Arcade" || n.Size != "M" || n.Style != "casual" {
		t.Errorf("prefs not carried: %+v", n)
	}
	if n.RawQuery != "something warm please" {
		t.Errorf("raw query = %q", n.RawQuery)
	}
}
