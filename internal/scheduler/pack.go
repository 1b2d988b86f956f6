package scheduler

import "github.com/abrezinsky/judgesched/internal/models"

// PackLongSessions appends count long-format blocks of the given slot width,
// one at a time, each to whichever judge position currently has the fewest
// slots (ties go to the lower position). Each block gets the next global
// group number. Without judges the groups are recorded but left unplaced.
func PackLongSessions(m Matrix, count, slots int) Matrix {
	out := m.Clone()
	for i := 0; i < count; i++ {
		g := GroupInfo{Number: out.NextGroup(), Format: models.FormatLongSingle, Pod: -1, Triad: -1}

		judge := out.lightestJudge()
		if judge >= 0 && slots > 0 {
			for k := 0; k < slots; k++ {
				out.Sequences[judge] = append(out.Sequences[judge], g.Number)
			}
			g.Judges = []int{judge}
		}
		out.Groups = append(out.Groups, g)
	}
	return out
}

func (m Matrix) lightestJudge() int {
	best := -1
	for j := range m.Sequences {
		if best < 0 || m.Load(j) < m.Load(best) {
			best = j
		}
	}
	return best
}
