package scheduler

import "github.com/abrezinsky/judgesched/internal/models"

// PanelSize is the number of judges in a triad
const PanelSize = 3

// Bye marks an idle slot in a lane or judge sequence
const Bye = 0

// GroupInfo describes one global group number. A group is the set of
// visits one entrant receives: three panel visits for pod groups, a single
// visit for long sessions.
type GroupInfo struct {
	Number int                  `json:"number"`
	Format models.SessionFormat `json:"format"`
	Pod    int                  `json:"pod"`    // -1 for long sessions
	Triad  int                  `json:"triad"`  // -1 when not on a triad
	Judges []int                `json:"judges"` // abstract judge positions that see the group
}

// PodLanes is a pod expanded to slot level with globally numbered groups
type PodLanes struct {
	Pod    int
	Lanes  [PanelSize][]int
	Groups []GroupInfo
}

// Width returns the number of slots the pod's rotation spans
func (p PodLanes) Width() int {
	return len(p.Lanes[0])
}

// Matrix holds one slot sequence per abstract judge position plus the
// metadata of every group number handed out so far.
type Matrix struct {
	Sequences [][]int
	Groups    []GroupInfo // index is group number - 1
	Triads    int
}

// NewMatrix returns an empty matrix for judgeCount abstract judges
func NewMatrix(judgeCount int) Matrix {
	triads := judgeCount / PanelSize
	return Matrix{Sequences: make([][]int, judgeCount), Triads: triads}
}

// Clone deep-copies the matrix
func (m Matrix) Clone() Matrix {
	c := Matrix{Triads: m.Triads}
	c.Sequences = make([][]int, len(m.Sequences))
	for i, seq := range m.Sequences {
		c.Sequences[i] = append([]int(nil), seq...)
	}
	c.Groups = make([]GroupInfo, len(m.Groups))
	for i, g := range m.Groups {
		g.Judges = append([]int(nil), g.Judges...)
		c.Groups[i] = g
	}
	return c
}

// Load returns the slot count assigned to an abstract judge
func (m Matrix) Load(judge int) int {
	return len(m.Sequences[judge])
}

// NextGroup returns the next unused global group number
func (m Matrix) NextGroup() int {
	return len(m.Groups) + 1
}

// Group returns the info for a group number
func (m Matrix) Group(number int) (GroupInfo, bool) {
	if number < 1 || number > len(m.Groups) {
		return GroupInfo{}, false
	}
	return m.Groups[number-1], true
}

// RotationLanes returns the round-level rotation for a pod. lanes[l][r] is
// the pod-local group (1-based) lane l sees in round r, or Bye. Pods of up
// to three run three rounds and every lane sees every group once. A pod of
// four runs four rounds, each lane sees every group once, and each group
// sits out exactly one round.
func RotationLanes(size int) [PanelSize][]int {
	var lanes [PanelSize][]int
	if size <= 0 {
		return lanes
	}
	rounds := size
	if rounds < PanelSize {
		rounds = PanelSize
	}
	for l := 0; l < PanelSize; l++ {
		lanes[l] = make([]int, rounds)
		for r := 0; r < rounds; r++ {
			g := ((r-l)%rounds+rounds)%rounds + 1
			if g > size {
				g = Bye
			}
			lanes[l][r] = g
		}
	}
	return lanes
}

// BuildPodLanes expands each pod's rotation to slot level. Every round is
// as long as the pod's longest member format; a lane seeing a shorter
// member gets byes for the rest of the round. Group numbers start at
// firstGroup and run consecutively across pods. The next free group number
// is returned alongside.
func BuildPodLanes(pods []Pod, s models.Settings, firstGroup int) ([]PodLanes, int) {
	next := firstGroup
	out := make([]PodLanes, 0, len(pods))
	for i, pod := range pods {
		if pod.Size() == 0 {
			continue
		}
		roundSlots := 0
		for _, m := range pod.Members {
			if d := s.SlotsFor(m); d > roundSlots {
				roundSlots = d
			}
		}

		pl := PodLanes{Pod: i}
		for local, m := range pod.Members {
			pl.Groups = append(pl.Groups, GroupInfo{Number: next + local, Format: m, Pod: i, Triad: -1})
		}

		rotation := RotationLanes(pod.Size())
		for l := 0; l < PanelSize; l++ {
			lane := make([]int, 0, len(rotation[l])*roundSlots)
			for _, local := range rotation[l] {
				busy := 0
				if local != Bye {
					busy = s.SlotsFor(pod.Members[local-1])
				}
				for k := 0; k < roundSlots; k++ {
					if k < busy {
						lane = append(lane, next+local-1)
					} else {
						lane = append(lane, Bye)
					}
				}
			}
			pl.Lanes[l] = lane
		}

		next += pod.Size()
		out = append(out, pl)
	}
	return out, next
}

// AssignPodsToTriads places each pod on the triad with the lowest total
// slot load, ties going to the earlier triad. Triad t owns abstract judge
// positions 3t..3t+2 and lane l of a pod lands on position 3t+l. With no
// full triad the pods' groups are recorded but left without judges.
func AssignPodsToTriads(m Matrix, pods []PodLanes) Matrix {
	out := m.Clone()
	for _, pl := range pods {
		triad := out.lightestTriad()
		groups := make([]GroupInfo, len(pl.Groups))
		copy(groups, pl.Groups)

		if triad >= 0 {
			base := triad * PanelSize
			for l := 0; l < PanelSize; l++ {
				out.Sequences[base+l] = append(out.Sequences[base+l], pl.Lanes[l]...)
			}
			for i := range groups {
				groups[i].Triad = triad
				groups[i].Judges = []int{base, base + 1, base + 2}
			}
		}
		out.Groups = append(out.Groups, groups...)
	}
	return out
}

func (m Matrix) lightestTriad() int {
	best, bestLoad := -1, 0
	for t := 0; t < m.Triads; t++ {
		load := 0
		for l := 0; l < PanelSize; l++ {
			load += m.Load(t*PanelSize + l)
		}
		if best < 0 || load < bestLoad {
			best, bestLoad = t, load
		}
	}
	return best
}

// TrimTrailingByes strips idle slots from the end of every judge sequence
func TrimTrailingByes(m Matrix) Matrix {
	out := m.Clone()
	for j, seq := range out.Sequences {
		end := len(seq)
		for end > 0 && seq[end-1] == Bye {
			end--
		}
		out.Sequences[j] = seq[:end]
	}
	return out
}
