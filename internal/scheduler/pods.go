package scheduler

import "github.com/abrezinsky/judgesched/internal/models"

// The two short formats that rotate through panels. TypeA is the shorter.
const (
	TypeA = models.FormatThreeByTen
	TypeB = models.FormatThreeByTwenty
)

// Pod is a rotation group of one to four entrants that share a panel
type Pod struct {
	Members []models.SessionFormat `json:"members"`
}

// Size returns the number of entrants in the pod
func (p Pod) Size() int {
	return len(p.Members)
}

// Mixed reports whether the pod combines both short formats
func (p Pod) Mixed() bool {
	if len(p.Members) < 2 {
		return false
	}
	for _, m := range p.Members[1:] {
		if m != p.Members[0] {
			return true
		}
	}
	return false
}

func homogeneous(format models.SessionFormat, n int) Pod {
	members := make([]models.SessionFormat, n)
	for i := range members {
		members[i] = format
	}
	return Pod{Members: members}
}

func mixed(a, b int) Pod {
	members := make([]models.SessionFormat, 0, a+b)
	for i := 0; i < a; i++ {
		members = append(members, TypeA)
	}
	for i := 0; i < b; i++ {
		members = append(members, TypeB)
	}
	return Pod{Members: members}
}

// PartitionPods splits countA type-A and countB type-B entrants into pods,
// favoring pods of three. A singleton pod only appears when a format has a
// lone leftover entrant and no triad of its own format to grow into a quad.
func PartitionPods(countA, countB int) []Pod {
	if countA < 0 {
		countA = 0
	}
	if countB < 0 {
		countB = 0
	}

	triadsA, ra := countA/3, countA%3
	triadsB, rb := countB/3, countB%3

	// A lone leftover with nothing to pair against turns one triad into a quad.
	quadA, quadB := false, false
	if ra == 1 && rb == 0 && triadsA > 0 {
		triadsA--
		quadA, ra = true, 0
	} else if rb == 1 && ra == 0 && triadsB > 0 {
		triadsB--
		quadB, rb = true, 0
	}

	var pods []Pod
	for i := 0; i < triadsA; i++ {
		pods = append(pods, homogeneous(TypeA, 3))
	}
	if quadA {
		pods = append(pods, homogeneous(TypeA, 4))
	}
	for i := 0; i < triadsB; i++ {
		pods = append(pods, homogeneous(TypeB, 3))
	}
	if quadB {
		pods = append(pods, homogeneous(TypeB, 4))
	}

	switch ra + rb {
	case 4:
		pods = append(pods, homogeneous(TypeA, 2), homogeneous(TypeB, 2))
	case 3, 2, 1:
		pods = append(pods, mixed(ra, rb))
	}
	return pods
}
