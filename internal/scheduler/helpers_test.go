package scheduler_test

import (
	"fmt"

	"github.com/abrezinsky/judgesched/internal/models"
	"github.com/abrezinsky/judgesched/internal/scheduler"
)

func sequentialIDs(prefix string) scheduler.IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func entrant(id string, format models.SessionFormat, prefs ...string) models.Entrant {
	return models.Entrant{
		ID:          id,
		Name:        "Entrant " + id,
		Format:      format,
		Preferences: prefs,
		Room:        "room-" + id,
		Included:    true,
	}
}

func judge(id string, cat models.Category) models.Judge {
	return models.Judge{ID: id, Name: "Judge " + id, Category: cat, Room: "hall-" + id, Active: true}
}

func intPtr(i int) *int { return &i }
