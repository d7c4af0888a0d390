package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/Rohit-NITW/harmony-backend/internal/models"
	"github.com/Rohit-NITW/harmony-backend/internal/repository"
)

type stubResourceStore struct {
	createResult *models.Resource
	createErr    error
	updateResult *models.Resource
	updateErr    error
	getResult    *models.Resource
	getErr       error
	listResult   []models.Resource
	listErr      error

	lastInput      repository.ResourceInput
	lastResourceID int64
	lastCategory   string
	lastCrisisOnly bool
}

func (s *stubResourceStore) Create(_ context.Context, input repository.ResourceInput) (*models.Resource, error) {
	s.lastInput = input
	return s.createResult, s.createErr
}

func (s *stubResourceStore) Update(_ context.Context, resourceID int64, input repository.ResourceInput) (*models.Resource, error) {
	s.lastResourceID = resourceID
	s.lastInput = input
	return s.updateResult, s.updateErr
}

func (s *stubResourceStore) GetByID(_ context.Context, resourceID int64) (*models.Resource, error) {
	s.lastResourceID = resourceID
	return s.getResult, s.getErr
}

func (s *stubResourceStore) List(_ context.Context, category string, crisisOnly bool) ([]models.Resource, error) {
	s.lastCategory = category
	s.lastCrisisOnly = crisisOnly
	return s.listResult, s.listErr
}

func TestListCrisisResourcesSkipsAuth(t *testing.T) {
	store := &stubResourceStore{
		listResult: []models.Resource{
			{ID: 1, Title: "Campus crisis line", Category: "hotline", IsCrisis: true},
		},
	}
	handler := &ResourceHandler{resourceRepo: store}

	// No auth middleware on this route.
	app := fiber.New()
	app.Get("/api/crisis-resources", handler.ListCrisisResources)

	req := httptest.NewRequest(http.MethodGet, "/api/crisis-resources", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !store.lastCrisisOnly {
		t.Fatal("expected crisis-only filter")
	}

	var body struct {
		Resources []models.Resource `json:"resources"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(body.Resources) != 1 || !body.Resources[0].IsCrisis {
		t.Fatalf("unexpected response: %+v", body.Resources)
	}
}

func TestListResourcesForwardsCategory(t *testing.T) {
	store := &stubResourceStore{}
	handler := &ResourceHandler{resourceRepo: store}

	app := fiber.New()
	app.Get("/api/v1/resources", handler.ListResources)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resources?category=sleep", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if store.lastCategory != "sleep" || store.lastCrisisOnly {
		t.Fatalf("unexpected filter: category=%q crisisOnly=%v", store.lastCategory, store.lastCrisisOnly)
	}
}

func TestCreateResourceRequiresAdmin(t *testing.T) {
	store := &stubResourceStore{}
	handler := &ResourceHandler{resourceRepo: store}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", "student")
		c.Locals("user_id", "42")
		return c.Next()
	})
	app.Post("/api/v1/resources", handler.CreateResource)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resources", strings.NewReader(`{"title":"Guide","category":"sleep"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestCreateResourceValidatesBody(t *testing.T) {
	store := &stubResourceStore{
		createResult: &models.Resource{ID: 4, Title: "Sleep hygiene", Category: "sleep"},
	}
	handler := &ResourceHandler{resourceRepo: store}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", "admin")
		c.Locals("user_id", "7")
		return c.Next()
	})
	app.Post("/api/v1/resources", handler.CreateResource)

	missingTitle := httptest.NewRequest(http.MethodPost, "/api/v1/resources", strings.NewReader(`{"category":"sleep"}`))
	missingTitle.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(missingTitle)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing title, got %d", resp.StatusCode)
	}

	valid := httptest.NewRequest(http.MethodPost, "/api/v1/resources", strings.NewReader(`{"title":"Sleep hygiene","category":"sleep"}`))
	valid.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(valid)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if store.lastInput.Title != "Sleep hygiene" {
		t.Fatalf("expected title forwarded, got %q", store.lastInput.Title)
	}
}

func TestGetResourceReturnsNotFound(t *testing.T) {
	store := &stubResourceStore{getErr: pgx.ErrNoRows}
	handler := &ResourceHandler{resourceRepo: store}

	app := fiber.New()
	app.Get("/api/v1/resources/:id", handler.GetResource)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resources/404", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
