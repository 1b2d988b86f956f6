package scheduler_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/abrezinsky/judgesched/internal/models"
	"github.com/abrezinsky/judgesched/internal/scheduler"
)

func TestResolveJudges_SpreadsPopularJudges(t *testing.T) {
	judges := []models.Judge{
		judge("A1", models.CategoryA), judge("A2", models.CategoryA),
		judge("B1", models.CategoryB), judge("B2", models.CategoryB),
		judge("C1", models.CategoryC), judge("C2", models.CategoryC),
		judge("U1", models.CategoryNone),
	}
	entrants := []models.Entrant{
		entrant("e1", "", "A1"),
		entrant("e2", "", "A1"),
		entrant("e3", "", "B1"),
		entrant("e4", "", "B1"),
	}

	got := scheduler.ResolveJudges(7, 2, judges, entrants)
	want := []string{"A1", "B2", "C1", "A2", "B1", "C2", "U1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ResolveJudges mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveJudges_LeftoversFillInInputOrder(t *testing.T) {
	judges := []models.Judge{
		judge("A1", models.CategoryA), judge("A2", models.CategoryA),
		judge("A3", models.CategoryA), judge("A4", models.CategoryA),
		judge("B1", models.CategoryB), judge("C1", models.CategoryC),
	}
	got := scheduler.ResolveJudges(6, 2, judges, nil)
	want := []string{"A1", "B1", "C1", "A2", "A3", "A4"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ResolveJudges mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveJudges_NoTriads(t *testing.T) {
	judges := []models.Judge{judge("x", models.CategoryNone), judge("y", models.CategoryB)}
	got := scheduler.ResolveJudges(2, 0, judges, nil)
	if diff := cmp.Diff([]string{"x", "y"}, got); diff != "" {
		t.Errorf("ResolveJudges mismatch (-want +got):\n%s", diff)
	}
}

// twoTriadMatrix has groups 1-2 on positions 0-2 and groups 3-4 on 3-5
func twoTriadMatrix() (scheduler.Matrix, []string) {
	f := models.FormatThreeByTwenty
	m := scheduler.Matrix{
		Sequences: make([][]int, 6),
		Triads:    2,
		Groups: []scheduler.GroupInfo{
			{Number: 1, Format: f, Pod: 0, Triad: 0, Judges: []int{0, 1, 2}},
			{Number: 2, Format: f, Pod: 0, Triad: 0, Judges: []int{0, 1, 2}},
			{Number: 3, Format: f, Pod: 1, Triad: 1, Judges: []int{3, 4, 5}},
			{Number: 4, Format: f, Pod: 1, Triad: 1, Judges: []int{3, 4, 5}},
		},
	}
	return m, []string{"j0", "j1", "j2", "j3", "j4", "j5"}
}

func avoiding(e models.Entrant, ids ...string) models.Entrant {
	e.Avoid = ids
	return e
}

func TestResolveGroups_FirstChoiceOverridesAvoidance(t *testing.T) {
	m, ids := twoTriadMatrix()
	e1 := avoiding(entrant("e1", "", "j1"), "e2")
	e2 := avoiding(entrant("e2", "", "j1"), "e1")

	placements, unplaced := scheduler.ResolveGroups(m, ids, []models.Entrant{e1, e2})
	if len(unplaced) != 0 {
		t.Fatalf("unexpected unplaced entrants: %v", unplaced)
	}
	want := []scheduler.Placement{
		{EntrantID: "e1", Group: 1, Tier: scheduler.TierFirstChoice},
		{EntrantID: "e2", Group: 2, Tier: scheduler.TierFirstChoice},
	}
	if diff := cmp.Diff(want, placements); diff != "" {
		t.Errorf("placements mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupResolver_FirstChoice(t *testing.T) {
	m, ids := twoTriadMatrix()
	r := scheduler.NewGroupResolver(m, ids)
	e := entrant("e1", "", "j4")

	g, ok := r.FirstChoice(e, r.Candidates(models.FormatThreeByTwenty))
	if !ok || g != 3 {
		t.Errorf("expected group 3, got %d %v", g, ok)
	}
	if _, ok := r.FirstChoice(entrant("e2", ""), r.Candidates(models.FormatThreeByTwenty)); ok {
		t.Error("entrant without preferences should not match a first choice")
	}
}

func TestGroupResolver_PreferenceSkipsConflicts(t *testing.T) {
	m, ids := twoTriadMatrix()
	r := scheduler.NewGroupResolver(m, ids)
	r.Occupy(1, "e1")

	e2 := avoiding(entrant("e2", "", "j9", "j0", "j3"), "e1")
	cands := r.Candidates(models.FormatThreeByTwenty)
	if diff := cmp.Diff([]int{2, 3, 4}, cands); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}
	if _, ok := r.Preference(e2, 1, cands); ok {
		t.Error("second choice only sits on a conflicting panel")
	}
	g, ok := r.Preference(e2, 2, cands)
	if !ok || g != 3 {
		t.Errorf("expected third choice on group 3, got %d %v", g, ok)
	}

	p, placed := r.Place(e2)
	if !placed || p.Group != 3 || p.Tier != scheduler.TierThirdChoice {
		t.Errorf("expected third-choice placement on group 3, got %+v", p)
	}
}

func TestGroupResolver_ConflictFree(t *testing.T) {
	m, ids := twoTriadMatrix()
	r := scheduler.NewGroupResolver(m, ids)
	r.Occupy(1, "e1")

	p, ok := r.Place(avoiding(entrant("e2", ""), "e1"))
	if !ok || p.Group != 3 || p.Tier != scheduler.TierConflictFree {
		t.Errorf("expected conflict-free placement on group 3, got %+v", p)
	}
}

func TestGroupResolver_Fallback(t *testing.T) {
	f := models.FormatThreeByTwenty
	m := scheduler.Matrix{
		Sequences: make([][]int, 3),
		Triads:    1,
		Groups: []scheduler.GroupInfo{
			{Number: 1, Format: f, Judges: []int{0, 1, 2}},
			{Number: 2, Format: f, Judges: []int{0, 1, 2}},
		},
	}
	r := scheduler.NewGroupResolver(m, []string{"j0", "j1", "j2"})
	r.Occupy(1, "e1")

	p, ok := r.Place(avoiding(entrant("e2", "", "j1"), "e1"))
	if !ok || p.Group != 2 || p.Tier != scheduler.TierFirstChoice {
		t.Errorf("first choice should still win, got %+v", p)
	}

	r = scheduler.NewGroupResolver(m, []string{"j0", "j1", "j2"})
	r.Occupy(1, "e1")
	p, ok = r.Place(avoiding(entrant("e3", "", "j9", "j0"), "e1"))
	if !ok || p.Group != 2 || p.Tier != scheduler.TierFallback {
		t.Errorf("expected fallback placement on group 2, got %+v", p)
	}
}

func TestGroupResolver_ConflictsUseOwnAvoidSetOnly(t *testing.T) {
	m, ids := twoTriadMatrix()
	r := scheduler.NewGroupResolver(m, ids)
	r.Occupy(1, "e1")

	e2 := entrant("e2", "")
	if r.Conflicts(e2, 2) {
		t.Error("e2 avoids nobody, so no conflict")
	}
	if !r.Conflicts(avoiding(e2, "e1"), 2) {
		t.Error("expected conflict on the shared panel")
	}
	if r.Conflicts(avoiding(e2, "e1"), 3) {
		t.Error("different panel should not conflict")
	}
}

func TestGroupResolver_SkipsUnjudgedAndOtherFormats(t *testing.T) {
	m := scheduler.Matrix{
		Groups: []scheduler.GroupInfo{
			{Number: 1, Format: models.FormatThreeByTen},
			{Number: 2, Format: models.FormatThreeByTen, Judges: []int{0}},
			{Number: 3, Format: models.FormatLongSingle, Judges: []int{0}},
		},
		Sequences: make([][]int, 1),
	}
	r := scheduler.NewGroupResolver(m, []string{"j0"})
	if diff := cmp.Diff([]int{2}, r.Candidates(models.FormatThreeByTen)); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveGroups_Unplaced(t *testing.T) {
	m, ids := twoTriadMatrix()
	placements, unplaced := scheduler.ResolveGroups(m, ids, []models.Entrant{entrant("e1", models.FormatLongSingle)})
	if len(placements) != 0 {
		t.Errorf("expected no placements, got %+v", placements)
	}
	if diff := cmp.Diff([]string{"e1"}, unplaced); diff != "" {
		t.Errorf("unplaced mismatch (-want +got):\n%s", diff)
	}
}

func TestTier_String(t *testing.T) {
	tests := map[scheduler.Tier]string{
		scheduler.TierUnplaced:     "unplaced",
		scheduler.TierFirstChoice:  "first_choice",
		scheduler.TierSecondChoice: "second_choice",
		scheduler.TierThirdChoice:  "third_choice",
		scheduler.TierConflictFree: "conflict_free",
		scheduler.TierFallback:     "fallback",
	}
	for tier, want := range tests {
		if got := tier.String(); got != want {
			t.Errorf("Tier(%d).String() = %q, want %q", tier, got, want)
		}
	}
}
