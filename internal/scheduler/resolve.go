package scheduler

import (
	"math"

	"github.com/abrezinsky/judgesched/internal/models"
)

// ResolveJudges maps abstract judge positions to concrete judge ids.
//
// Triads are filled in order with one judge per category. For each triad
// the (A, B, C) combination whose first-choice popularity is closest to
// the remaining popularity divided by the remaining triads wins, which
// spreads popular judges across the event. Judges left over, including
// uncategorized ones, fill the remaining positions in input order.
func ResolveJudges(positions, triads int, judges []models.Judge, entrants []models.Entrant) []string {
	assigned := make([]string, positions)
	firsts := firstChoiceCounts(entrants)

	pools := make(map[models.Category][]models.Judge, len(models.Categories))
	for _, j := range judges {
		if j.Category != models.CategoryNone {
			pools[j.Category] = append(pools[j.Category], j)
		}
	}

	used := make(map[string]bool, len(judges))
	for t := 0; t < triads && (t+1)*PanelSize <= positions; t++ {
		a, b, c := pools[models.CategoryA], pools[models.CategoryB], pools[models.CategoryC]
		if len(a) == 0 || len(b) == 0 || len(c) == 0 {
			break
		}

		remaining := 0
		for _, cat := range models.Categories {
			for _, j := range pools[cat] {
				remaining += firsts[j.ID]
			}
		}
		target := float64(remaining) / float64(triads-t)

		bi, bj, bk := 0, 0, 0
		bestDiff := math.Inf(1)
		for i := range a {
			for k1 := range b {
				for k2 := range c {
					score := firsts[a[i].ID] + firsts[b[k1].ID] + firsts[c[k2].ID]
					if diff := math.Abs(float64(score) - target); diff < bestDiff {
						bi, bj, bk, bestDiff = i, k1, k2, diff
					}
				}
			}
		}

		base := t * PanelSize
		assigned[base] = a[bi].ID
		assigned[base+1] = b[bj].ID
		assigned[base+2] = c[bk].ID
		used[a[bi].ID], used[b[bj].ID], used[c[bk].ID] = true, true, true
		pools[models.CategoryA] = without(a, bi)
		pools[models.CategoryB] = without(b, bj)
		pools[models.CategoryC] = without(c, bk)
	}

	pos := 0
	for _, j := range judges {
		if used[j.ID] {
			continue
		}
		for pos < positions && assigned[pos] != "" {
			pos++
		}
		if pos >= positions {
			break
		}
		assigned[pos] = j.ID
		used[j.ID] = true
	}
	return assigned
}

func firstChoiceCounts(entrants []models.Entrant) map[string]int {
	counts := make(map[string]int)
	for _, e := range entrants {
		if first := e.Preference(0); first != "" {
			counts[first]++
		}
	}
	return counts
}

func without(judges []models.Judge, i int) []models.Judge {
	out := make([]models.Judge, 0, len(judges)-1)
	out = append(out, judges[:i]...)
	return append(out, judges[i+1:]...)
}

// Tier records which search pass placed an entrant
type Tier int

const (
	TierUnplaced     Tier = 0
	TierFirstChoice  Tier = 1
	TierSecondChoice Tier = 2
	TierThirdChoice  Tier = 3
	TierConflictFree Tier = 4
	TierFallback     Tier = 5
)

func (t Tier) String() string {
	switch t {
	case TierFirstChoice:
		return "first_choice"
	case TierSecondChoice:
		return "second_choice"
	case TierThirdChoice:
		return "third_choice"
	case TierConflictFree:
		return "conflict_free"
	case TierFallback:
		return "fallback"
	default:
		return "unplaced"
	}
}

// Placement binds an entrant to a global group number
type Placement struct {
	EntrantID string `json:"entrant_id"`
	Group     int    `json:"group"`
	Tier      Tier   `json:"tier"`
}

// GroupResolver hands out group numbers to entrants. Each search pass is a
// method so the tiers can be exercised on their own.
type GroupResolver struct {
	matrix   Matrix
	judgeIDs []string
	occupant map[int]string
}

// NewGroupResolver builds a resolver over m with concrete judges per position
func NewGroupResolver(m Matrix, judgeIDs []string) *GroupResolver {
	return &GroupResolver{matrix: m, judgeIDs: judgeIDs, occupant: make(map[int]string)}
}

// Occupy marks group as taken by entrantID
func (r *GroupResolver) Occupy(group int, entrantID string) {
	r.occupant[group] = entrantID
}

// Candidates returns the free, placed groups of a format in ascending order
func (r *GroupResolver) Candidates(format models.SessionFormat) []int {
	var out []int
	for _, g := range r.matrix.Groups {
		if g.Format != format || len(g.Judges) == 0 {
			continue
		}
		if _, taken := r.occupant[g.Number]; taken {
			continue
		}
		out = append(out, g.Number)
	}
	return out
}

// Panel returns the concrete judge ids that see a group
func (r *GroupResolver) Panel(group int) []string {
	g, ok := r.matrix.Group(group)
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(g.Judges))
	for _, pos := range g.Judges {
		if pos < len(r.judgeIDs) && r.judgeIDs[pos] != "" {
			ids = append(ids, r.judgeIDs[pos])
		}
	}
	return ids
}

func (r *GroupResolver) panelHas(group int, judgeID string) bool {
	for _, id := range r.Panel(group) {
		if id == judgeID {
			return true
		}
	}
	return false
}

// Conflicts reports whether placing e on group would share a judge with a
// group already held by an entrant e avoids.
func (r *GroupResolver) Conflicts(e models.Entrant, group int) bool {
	if len(e.Avoid) == 0 {
		return false
	}
	panel := r.Panel(group)
	for held, other := range r.occupant {
		if other == e.ID || !e.Avoids(other) {
			continue
		}
		for _, id := range panel {
			if r.panelHas(held, id) {
				return true
			}
		}
	}
	return false
}

// FirstChoice finds a group whose panel has the entrant's first choice.
// Avoidance is ignored here.
func (r *GroupResolver) FirstChoice(e models.Entrant, candidates []int) (int, bool) {
	first := e.Preference(0)
	if first == "" {
		return 0, false
	}
	for _, g := range candidates {
		if r.panelHas(g, first) {
			return g, true
		}
	}
	return 0, false
}

// Preference finds a conflict-free group whose panel has the judge the
// entrant ranked at rank (0-based).
func (r *GroupResolver) Preference(e models.Entrant, rank int, candidates []int) (int, bool) {
	judge := e.Preference(rank)
	if judge == "" {
		return 0, false
	}
	for _, g := range candidates {
		if r.panelHas(g, judge) && !r.Conflicts(e, g) {
			return g, true
		}
	}
	return 0, false
}

// ConflictFree finds any judged group that creates no avoidance conflict
func (r *GroupResolver) ConflictFree(e models.Entrant, candidates []int) (int, bool) {
	for _, g := range candidates {
		if len(r.Panel(g)) > 0 && !r.Conflicts(e, g) {
			return g, true
		}
	}
	return 0, false
}

// Fallback takes the first remaining group regardless of conflicts
func (r *GroupResolver) Fallback(candidates []int) (int, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[0], true
}

// Place runs the tier passes in priority order and occupies the group found
func (r *GroupResolver) Place(e models.Entrant) (Placement, bool) {
	candidates := r.Candidates(e.Format.OrDefault())
	passes := []struct {
		tier Tier
		find func() (int, bool)
	}{
		{TierFirstChoice, func() (int, bool) { return r.FirstChoice(e, candidates) }},
		{TierSecondChoice, func() (int, bool) { return r.Preference(e, 1, candidates) }},
		{TierThirdChoice, func() (int, bool) { return r.Preference(e, 2, candidates) }},
		{TierConflictFree, func() (int, bool) { return r.ConflictFree(e, candidates) }},
		{TierFallback, func() (int, bool) { return r.Fallback(candidates) }},
	}
	for _, p := range passes {
		if g, ok := p.find(); ok {
			r.Occupy(g, e.ID)
			return Placement{EntrantID: e.ID, Group: g, Tier: p.tier}, true
		}
	}
	return Placement{EntrantID: e.ID, Tier: TierUnplaced}, false
}

// ResolveGroups places entrants in input order. Entrants for which no group
// of their format exists are returned as unplaced.
func ResolveGroups(m Matrix, judgeIDs []string, entrants []models.Entrant) ([]Placement, []string) {
	r := NewGroupResolver(m, judgeIDs)
	var placements []Placement
	var unplaced []string
	for _, e := range entrants {
		p, ok := r.Place(e)
		if !ok {
			unplaced = append(unplaced, e.ID)
			continue
		}
		placements = append(placements, p)
	}
	return placements, unplaced
}
