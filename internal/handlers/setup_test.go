package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/judgesched/internal/auth"
	"github.com/abrezinsky/judgesched/internal/handlers"
	"github.com/abrezinsky/judgesched/internal/logger"
	"github.com/abrezinsky/judgesched/internal/models"
	"github.com/abrezinsky/judgesched/internal/repository"
	"github.com/abrezinsky/judgesched/internal/repository/mock"
	"github.com/abrezinsky/judgesched/internal/services"
	"github.com/abrezinsky/judgesched/internal/testutil"
)

type testSetup struct {
	handlers   *handlers.Handlers
	router     chi.Router
	repo       *repository.Repository
	entrants   *services.EntrantService
	judges     *services.JudgeService
	authCookie *http.Cookie
}

func newTestSetup(t *testing.T) *testSetup {
	t.Helper()
	repo := testutil.NewTestRepository(t)
	return buildSetup(t, repo, repo)
}

// newTestSetupWithMockRepo wires the services through an error-injecting
// repository wrapper
func newTestSetupWithMockRepo(t *testing.T) (*testSetup, *mock.Repository) {
	t.Helper()
	repo := testutil.NewTestRepository(t)
	mockRepo := mock.NewRepository(repo)
	return buildSetup(t, repo, mockRepo), mockRepo
}

func buildSetup(t *testing.T, real *repository.Repository, repo repository.FullRepository) *testSetup {
	t.Helper()
	log := logger.Nop()

	settingsService := services.NewSettingsService(log, repo, models.DefaultSettings(), "http://localhost:8080")
	entrantService := services.NewEntrantService(log, repo)
	judgeService := services.NewJudgeService(log, repo, settingsService)
	scheduleService := services.NewScheduleService(log, repo, settingsService, nil)
	entrantService.ShareUnitLock(scheduleService.UnitLock())
	judgeService.ShareUnitLock(scheduleService.UnitLock())
	settingsService.ShareUnitLock(scheduleService.UnitLock())

	h := handlers.NewForTesting(entrantService, judgeService, settingsService, scheduleService)
	h.Log = log

	token, _ := h.Auth.Login("test-password")
	return &testSetup{
		handlers:   h,
		router:     h.Router(),
		repo:       real,
		entrants:   entrantService,
		judges:     judgeService,
		authCookie: &http.Cookie{Name: auth.CookieName, Value: token},
	}
}

// do sends an authenticated request with an optional JSON body
func (s *testSetup) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(s.authCookie)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// seedPanel stores nine judges, three per category, and nine
// three_by_twenty entrants
func (s *testSetup) seedPanel(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for _, cat := range models.Categories {
		for i := 1; i <= 3; i++ {
			id := fmt.Sprintf("%s%d", cat, i)
			j := models.Judge{ID: id, Name: "Judge " + id, Category: cat, Room: "hall-" + id, Active: true}
			if _, err := s.judges.CreateJudge(ctx, j); err != nil {
				t.Fatalf("CreateJudge failed: %v", err)
			}
		}
	}
	for _, e := range testutil.Entrants(9, models.FormatThreeByTwenty) {
		if _, err := s.entrants.CreateEntrant(ctx, e); err != nil {
			t.Fatalf("CreateEntrant failed: %v", err)
		}
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}
