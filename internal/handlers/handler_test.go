// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides in-memory fakes and request helpers shared by
// the handler tests.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ignitia/internal/ai"
	"ignitia/internal/middleware"
	"ignitia/internal/models"
	"ignitia/internal/render"
	"ignitia/internal/session"
	"ignitia/internal/startup"
	"ignitia/internal/store"
)

// sampleContent is a well-formed model reply.
const sampleContent = `{
  "startupName": "FitBook",
  "tagline": "Book your sweat in seconds",
  "description": "FitBook lets members reserve classes instantly.",
  "targetAudience": "Busy gym-goers",
  "keyFeatures": ["One-tap booking", "Waitlists", "Reminders"],
  "colorScheme": {"primary": "#3b82f6", "secondary": "#10b981", "accent": "#f59e0b"},
  "landingPageHtml": "<!DOCTYPE html><html><body><h1>FitBook</h1></body></html>"
}`

// errBackend simulates a failing database.
var errBackend = errors.New("connection refused")

// mockAIProvider implements ai.Provider for handler tests.
type mockAIProvider struct {
	name     string
	response string
	err      error

	mu      sync.Mutex
	prompts []string
}

func (m *mockAIProvider) Name() string { return m.name }

func (m *mockAIProvider) Generate(_ context.Context, _, userPrompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, userPrompt)
	m.mu.Unlock()
	return m.response, m.err
}

func (m *mockAIProvider) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// flaggingModerator rejects every prompt.
type flaggingModerator struct{}

func (flaggingModerator) CheckSafety(context.Context, string) (*ai.ModerationResult, error) {
	return &ai.ModerationResult{Safe: false, Categories: []string{"hate", "violence"}}, nil
}

// newTestGenerator wires a startup.Generator to a registry holding provider.
func newTestGenerator(provider *mockAIProvider) (*startup.Generator, *ai.Registry) {
	reg := ai.NewRegistry("test", map[string]ai.ProviderConfig{})
	reg.Register("test", provider)
	return startup.NewGenerator(reg), reg
}

// newGeneratorFor wires a startup.Generator to an existing registry.
func newGeneratorFor(reg *ai.Registry) *startup.Generator {
	return startup.NewGenerator(reg)
}

// fakeGenerations is an in-memory GenerationRepo.
type fakeGenerations struct {
	mu      sync.Mutex
	records []models.Generation
	err     error
	clock   time.Time
}

func newFakeGenerations() *fakeGenerations {
	return &fakeGenerations{clock: time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeGenerations) Create(ownerID uuid.UUID, in models.GenerationInput) (*models.Generation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.clock = f.clock.Add(time.Minute)
	features := in.KeyFeatures
	if features == nil {
		features = models.KeyFeatures{}
	}
	g := models.Generation{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		IdeaInput:       in.IdeaInput,
		StartupName:     in.StartupName,
		Tagline:         in.Tagline,
		Description:     in.Description,
		TargetAudience:  in.TargetAudience,
		KeyFeatures:     features,
		ColorScheme:     in.ColorScheme,
		LandingPageHTML: in.LandingPageHTML,
		CreatedAt:       f.clock,
	}
	f.records = append(f.records, g)
	return &g, nil
}

func (f *fakeGenerations) ListByOwner(ownerID uuid.UUID) ([]models.Generation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Generation{}
	for _, g := range f.records {
		if g.OwnerID == ownerID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeGenerations) FindByOwner(ownerID, id uuid.UUID) (*models.Generation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, g := range f.records {
		if g.ID == id && g.OwnerID == ownerID {
			return &g, nil
		}
	}
	return nil, nil
}

func (f *fakeGenerations) DeleteByOwner(ownerID, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for i, g := range f.records {
		if g.ID == id && g.OwnerID == ownerID {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// fakeUsers is an in-memory UserRepo storing plaintext passwords.
type fakeUsers struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*models.User
	passwords map[uuid.UUID]string
	checked   []*models.User // users passed to CheckPassword
	err       error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		users:     make(map[uuid.UUID]*models.User),
		passwords: make(map[uuid.UUID]string),
	}
}

func (f *fakeUsers) FindByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByID(id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Create(email, password, fullName string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return nil, store.ErrEmailTaken
		}
	}
	u := &models.User{ID: uuid.New(), Email: email, FullName: fullName, CreatedAt: time.Now()}
	f.users[u.ID] = u
	f.passwords[u.ID] = password
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) SetTOTPSecret(userID uuid.UUID, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("no user %s", userID)
	}
	u.TOTPSecret = &secret
	return nil
}

func (f *fakeUsers) EnableTOTP(userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("no user %s", userID)
	}
	u.TOTPEnabled = true
	return nil
}

func (f *fakeUsers) CheckPassword(user *models.User, password string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checked = append(f.checked, user)
	pw, ok := f.passwords[user.ID]
	return ok && pw == password
}

// fakeSessions records created and destroyed sessions.
type fakeSessions struct {
	mu        sync.Mutex
	created   []session.Data
	destroyed int
	err       error
}

func (f *fakeSessions) Create(_ context.Context, w http.ResponseWriter, data *session.Data) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, *data)
	token := fmt.Sprintf("token-%d", len(f.created))
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: token, Path: "/", HttpOnly: true})
	return token, nil
}

func (f *fakeSessions) Destroy(_ context.Context, _ http.ResponseWriter, _ *http.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed++
	return f.err
}

// fakePublisher keeps uploaded objects in memory.
type fakePublisher struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	uploadErr error
	deleteErr error
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{objects: make(map[string][]byte)}
}

func (f *fakePublisher) Upload(_ context.Context, key, _ string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.objects[key] = body
	return nil
}

func (f *fakePublisher) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	delete(f.objects, key)
	return f.deleteErr
}

func (f *fakePublisher) FileURL(key string) string {
	return "https://cdn.example.com/" + key
}

// testRenderer returns a renderer or fails the test.
func testRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	return r
}

// testSession creates a session.Data for a fresh user.
func testSession() *session.Data {
	return &session.Data{UserID: uuid.New(), Email: "founder@ignitia.local"}
}

// jsonRequest builds a request with a JSON body and optional session.
func jsonRequest(method, target, body string, sess *session.Data) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	if sess != nil {
		req = req.WithContext(middleware.WithSession(req.Context(), sess))
	}
	return req
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody unmarshals a recorder's JSON body into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

// errorBody decodes a {"error","details"} response.
func errorBody(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var e errorResponse
	decodeBody(t, rec, &e)
	return e
}

// generationJSON is a valid POST /generations body for idea.
func generationJSON(idea string) string {
	b, _ := json.Marshal(models.GenerationInput{
		IdeaInput:       idea,
		StartupName:     "FitBook",
		Tagline:         "Book your sweat in seconds",
		Description:     "FitBook lets members reserve classes instantly.",
		TargetAudience:  "Busy gym-goers",
		KeyFeatures:     models.KeyFeatures{"One-tap booking", "Waitlists"},
		ColorScheme:     models.ColorScheme{Primary: "#3b82f6", Secondary: "#10b981", Accent: "#f59e0b"},
		LandingPageHTML: "<!DOCTYPE html><html><body><h1>FitBook</h1></body></html>",
	})
	return string(b)
}
