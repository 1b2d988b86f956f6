package testutil

import (
	"strconv"
	"testing"

	"github.com/abrezinsky/judgesched/internal/models"
	"github.com/abrezinsky/judgesched/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() { repo.Close() })

	return repo
}

// Judges returns n active judges, cycling categories A, B, C
func Judges(n int) []models.Judge {
	out := make([]models.Judge, n)
	for i := range out {
		out[i] = models.Judge{
			ID:       "j" + strconv.Itoa(i+1),
			Name:     "Judge " + strconv.Itoa(i+1),
			Category: models.Categories[i%len(models.Categories)],
			Room:     "hall-" + strconv.Itoa(i+1),
			Active:   true,
		}
	}
	return out
}

// Entrants returns n included entrants of one format, each in its own room
func Entrants(n int, format models.SessionFormat) []models.Entrant {
	out := make([]models.Entrant, n)
	for i := range out {
		out[i] = models.Entrant{
			ID:       "e" + strconv.Itoa(i+1),
			Name:     "Entrant " + strconv.Itoa(i+1),
			Format:   format,
			Room:     "room-" + strconv.Itoa(i+1),
			Included: true,
		}
	}
	return out
}
