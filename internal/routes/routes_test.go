package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/skillbridge/skillbridge-backend/internal/config"
	"github.com/skillbridge/skillbridge-backend/internal/database"
	"github.com/skillbridge/skillbridge-backend/internal/models"
	"github.com/skillbridge/skillbridge-backend/internal/services"
)

func setupServer(t *testing.T) (*gin.Engine, *services.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		DatabaseType:  "sqlite",
		DatabaseURL:   filepath.Join(t.TempDir(), "api_test.db"),
		JWTSecret:     "test-secret-key",
		JWTExpiration: 1,
		AppName:       "SkillBridge-test",
		AdminUsername: "admin",
		AdminPassword: "admin123",
	}

	if err := database.Initialize(cfg); err != nil {
		t.Fatalf("initialize database: %v", err)
	}

	authService := services.NewAuthService(cfg)
	if err := SeedAdminUser(cfg, authService); err != nil {
		t.Fatalf("seed admin user: %v", err)
	}

	return SetupRouter(cfg), authService
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func loginAs(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": username,
		"password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login as %s: status %d body %s", username, w.Code, w.Body.String())
	}
	token, _ := decode(t, w)["token"].(string)
	if token == "" {
		t.Fatalf("login as %s: no token in response", username)
	}
	return token
}

// registerUser creates a user via the API and optionally promotes it.
func registerUser(t *testing.T, router *gin.Engine, admin, username string, role models.UserRole) uint {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, w.Code, w.Body.String())
	}
	user := decode(t, w)["user"].(map[string]any)
	id := uint(user["id"].(float64))

	if role != models.RoleUser {
		w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/users/%d", id), admin, gin.H{"role": role})
		if w.Code != http.StatusOK {
			t.Fatalf("promote %s: status %d body %s", username, w.Code, w.Body.String())
		}
	}
	return id
}

func createEntity(t *testing.T, router *gin.Engine, token, path string, body gin.H, key string) uint {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, path, token, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST %s: status %d body %s", path, w.Code, w.Body.String())
	}
	entity := decode(t, w)[key].(map[string]any)
	return uint(entity["id"].(float64))
}

func TestLoginIssuesTokenMatchingStoredUser(t *testing.T) {
	router, authService := setupServer(t)

	token := loginAs(t, router, "admin", "admin123")

	claims, err := authService.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.Username != "admin" {
		t.Errorf("claims.Username = %q, want %q", claims.Username, "admin")
	}
	if claims.Role != models.RoleAdmin {
		t.Errorf("claims.Role = %q, want %q", claims.Role, models.RoleAdmin)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router, _ := setupServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "admin",
		"password": "not-the-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	router, _ := setupServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/profile"},
		{http.MethodGet, "/api/companies"},
		{http.MethodPost, "/api/companies"},
		{http.MethodGet, "/api/skills"},
		{http.MethodGet, "/api/users/1/skills"},
		{http.MethodGet, "/api/projects"},
		{http.MethodGet, "/api/projects/1/skill-gap"},
	}

	for _, p := range paths {
		w := doJSON(t, router, p.method, p.path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status = %d, want 401", p.method, p.path, w.Code)
		}
	}
}

func TestRegisterAndProfile(t *testing.T) {
	router, _ := setupServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"username":   "jdoe",
		"password":   "password123",
		"email":      "jdoe@example.com",
		"first_name": "Jane",
		"last_name":  "Doe",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", w.Code, w.Body.String())
	}
	user := decode(t, w)["user"].(map[string]any)
	if user["role"] != "user" {
		t.Errorf("new user role = %v, want user", user["role"])
	}

	token := loginAs(t, router, "jdoe", "password123")
	w = doJSON(t, router, http.MethodGet, "/api/auth/profile", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("profile: status %d body %s", w.Code, w.Body.String())
	}
	profile := decode(t, w)["user"].(map[string]any)
	if profile["username"] != "jdoe" {
		t.Errorf("profile username = %v, want jdoe", profile["username"])
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	router, _ := setupServer(t)

	body := gin.H{"username": "jdoe", "password": "password123"}
	if w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", body); w.Code != http.StatusCreated {
		t.Fatalf("first register: status %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", body); w.Code != http.StatusConflict {
		t.Errorf("second register: status %d, want 409", w.Code)
	}
}

func TestSkillCRUDAndRoleChecks(t *testing.T) {
	router, _ := setupServer(t)
	admin := loginAs(t, router, "admin", "admin123")

	registerUser(t, router, admin, "plain", models.RoleUser)
	plain := loginAs(t, router, "plain", "password123")

	// plain users cannot create skills
	w := doJSON(t, router, http.MethodPost, "/api/skills", plain, gin.H{"name": "Rust"})
	if w.Code != http.StatusForbidden {
		t.Errorf("user creating skill: status %d, want 403", w.Code)
	}

	skillID := createEntity(t, router, admin, "/api/skills", gin.H{"name": "Rust", "category": "Programming"}, "skill")

	// duplicate name conflicts
	w = doJSON(t, router, http.MethodPost, "/api/skills", admin, gin.H{"name": "Rust"})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate skill: status %d, want 409", w.Code)
	}

	// missing name is a validation error
	w = doJSON(t, router, http.MethodPost, "/api/skills", admin, gin.H{"category": "Programming"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("skill without name: status %d, want 400", w.Code)
	}

	// anyone authenticated can read
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/skills/%d", skillID), plain, nil)
	if w.Code != http.StatusOK {
		t.Errorf("get skill: status %d, want 200", w.Code)
	}

	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/skills/%d", skillID), admin, gin.H{"description": "Systems language"})
	if w.Code != http.StatusOK {
		t.Errorf("update skill: status %d, want 200", w.Code)
	}

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/skills/%d", skillID), admin, nil)
	if w.Code != http.StatusOK {
		t.Errorf("delete skill: status %d, want 200", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/skills/%d", skillID), admin, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get deleted skill: status %d, want 404", w.Code)
	}
}

func TestCompanyDeleteBlockedWhileEmployed(t *testing.T) {
	router, _ := setupServer(t)
	admin := loginAs(t, router, "admin", "admin123")

	companyID := createEntity(t, router, admin, "/api/companies", gin.H{"name": "Acme", "industry": "Software"}, "company")

	userID := registerUser(t, router, admin, "worker", models.RoleUser)
	w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/users/%d", userID), admin, gin.H{"company_id": companyID})
	if w.Code != http.StatusOK {
		t.Fatalf("assign company: status %d body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/companies/%d", companyID), admin, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("delete employing company: status %d, want 400", w.Code)
	}

	// company and employee untouched
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/companies/%d", companyID), admin, nil)
	if w.Code != http.StatusOK {
		t.Errorf("company gone after refused delete: status %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/users/%d", userID), admin, nil)
	if w.Code != http.StatusOK {
		t.Errorf("employee gone after refused delete: status %d", w.Code)
	}

	// removing the employee frees the company
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/users/%d", userID), admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete user: status %d", w.Code)
	}
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/companies/%d", companyID), admin, nil)
	if w.Code != http.StatusOK {
		t.Errorf("delete empty company: status %d, want 200", w.Code)
	}
}

func TestUserSkillPairUniqueness(t *testing.T) {
	router, _ := setupServer(t)
	admin := loginAs(t, router, "admin", "admin123")

	userID := registerUser(t, router, admin, "jdoe", models.RoleUser)
	skillID := createEntity(t, router, admin, "/api/skills", gin.H{"name": "Terraform"}, "skill")

	jdoe := loginAs(t, router, "jdoe", "password123")

	// self-service add
	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/users/%d/skills", userID), jdoe, gin.H{
		"skill_id":          skillID,
		"proficiency_level": 3,
		"years_experience":  2.5,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add user skill: status %d body %s", w.Code, w.Body.String())
	}

	// duplicate pair conflicts
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/users/%d/skills", userID), jdoe, gin.H{"skill_id": skillID})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate user skill: status %d, want 409", w.Code)
	}

	// no duplicate row created
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/users/%d/skills", userID), jdoe, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list user skills: status %d", w.Code)
	}
	skills := decode(t, w)["user_skills"].([]any)
	if len(skills) != 1 {
		t.Errorf("user has %d skill rows, want 1", len(skills))
	}

	// unknown skill is a 404
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/users/%d/skills", userID), jdoe, gin.H{"skill_id": 99999})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown skill: status %d, want 404", w.Code)
	}

	// another plain user may not read someone else's skills
	registerUser(t, router, admin, "other", models.RoleUser)
	other := loginAs(t, router, "other", "password123")
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/users/%d/skills", userID), other, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign user skills: status %d, want 403", w.Code)
	}
}

func TestProjectLifecycle(t *testing.T) {
	router, _ := setupServer(t)
	admin := loginAs(t, router, "admin", "admin123")

	registerUser(t, router, admin, "pm", models.RoleManager)
	manager := loginAs(t, router, "pm", "password123")

	companyID := createEntity(t, router, admin, "/api/companies", gin.H{"name": "Acme"}, "company")

	// managers may create projects
	w := doJSON(t, router, http.MethodPost, "/api/projects", manager, gin.H{
		"name":       "Migration",
		"company_id": companyID,
		"start_date": "2026-01-01",
		"end_date":   "2026-06-30",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create project: status %d body %s", w.Code, w.Body.String())
	}
	project := decode(t, w)["project"].(map[string]any)
	if project["status"] != "planning" {
		t.Errorf("default status = %v, want planning", project["status"])
	}
	projectID := uint(project["id"].(float64))

	// date ordering is enforced
	w = doJSON(t, router, http.MethodPost, "/api/projects", manager, gin.H{
		"name":       "Backwards",
		"company_id": companyID,
		"start_date": "2026-06-30",
		"end_date":   "2026-01-01",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("end before start: status %d, want 400", w.Code)
	}

	// unknown company is a 404
	w = doJSON(t, router, http.MethodPost, "/api/projects", manager, gin.H{"name": "Orphan", "company_id": 99999})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown company: status %d, want 404", w.Code)
	}

	// plain users may not create projects
	registerUser(t, router, admin, "plain", models.RoleUser)
	plain := loginAs(t, router, "plain", "password123")
	w = doJSON(t, router, http.MethodPost, "/api/projects", plain, gin.H{"name": "Nope", "company_id": companyID})
	if w.Code != http.StatusForbidden {
		t.Errorf("user creating project: status %d, want 403", w.Code)
	}

	// status updates validate against the fixed set
	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/projects/%d", projectID), manager, gin.H{"status": "archived"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid status: status %d, want 400", w.Code)
	}
	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/projects/%d", projectID), manager, gin.H{"status": "active"})
	if w.Code != http.StatusOK {
		t.Errorf("valid status: status %d, want 200", w.Code)
	}

	// filters
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/projects?company_id=%d&status=active", companyID), plain, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list projects: status %d", w.Code)
	}
	if projects := decode(t, w)["projects"].([]any); len(projects) != 1 {
		t.Errorf("filtered projects = %d, want 1", len(projects))
	}

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/projects/%d", projectID), manager, nil)
	if w.Code != http.StatusOK {
		t.Errorf("delete project: status %d, want 200", w.Code)
	}
}

func TestProjectMembership(t *testing.T) {
	router, _ := setupServer(t)
	admin := loginAs(t, router, "admin", "admin123")

	companyID := createEntity(t, router, admin, "/api/companies", gin.H{"name": "Acme"}, "company")
	projectID := createEntity(t, router, admin, "/api/projects", gin.H{"name": "Migration", "company_id": companyID}, "project")
	userID := registerUser(t, router, admin, "dev1", models.RoleUser)

	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/projects/%d/members", projectID), admin, gin.H{
		"user_id":               userID,
		"role":                  "Developer",
		"allocation_percentage": 50,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add member: status %d body %s", w.Code, w.Body.String())
	}
	membership := decode(t, w)["membership"].(map[string]any)
	membershipID := uint(membership["id"].(float64))
	if membership["username"] != "dev1" {
		t.Errorf("membership username = %v, want dev1", membership["username"])
	}

	// duplicate membership conflicts
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/projects/%d/members", projectID), admin, gin.H{"user_id": userID})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate member: status %d, want 409", w.Code)
	}

	// unknown user is a 404
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/projects/%d/members", projectID), admin, gin.H{"user_id": 99999})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown user: status %d, want 404", w.Code)
	}

	// membership of a different project is not removable through this one
	otherProject := createEntity(t, router, admin, "/api/projects", gin.H{"name": "Other", "company_id": companyID}, "project")
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/projects/%d/members/%d", otherProject, membershipID), admin, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-project removal: status %d, want 404", w.Code)
	}

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/projects/%d/members/%d", projectID, membershipID), admin, nil)
	if w.Code != http.StatusOK {
		t.Errorf("remove member: status %d, want 200", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/projects/%d/members", projectID), admin, nil)
	if members := decode(t, w)["members"].([]any); len(members) != 0 {
		t.Errorf("members after removal = %d, want 0", len(members))
	}
}

func TestSkillGapEndpoint(t *testing.T) {
	router, _ := setupServer(t)
	admin := loginAs(t, router, "admin", "admin123")

	companyID := createEntity(t, router, admin, "/api/companies", gin.H{"name": "Acme"}, "company")
	projectID := createEntity(t, router, admin, "/api/projects", gin.H{"name": "Migration", "company_id": companyID}, "project")
	skillID := createEntity(t, router, admin, "/api/skills", gin.H{"name": "Event Sourcing"}, "skill")

	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/projects/%d/skills", projectID), admin, gin.H{
		"skill_id":         skillID,
		"importance_level": 5,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add project skill: status %d body %s", w.Code, w.Body.String())
	}

	// no members: coverage 0, avg 0, gap = importance
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/projects/%d/skill-gap", projectID), admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("skill gap: status %d body %s", w.Code, w.Body.String())
	}
	gaps := decode(t, w)["skill_gap"].([]any)
	if len(gaps) != 1 {
		t.Fatalf("gap entries = %d, want 1", len(gaps))
	}
	entry := gaps[0].(map[string]any)
	if entry["coverage"].(float64) != 0 || entry["avg_proficiency"].(float64) != 0 || entry["gap_score"].(float64) != 5 {
		t.Errorf("empty-team gap = %v, want coverage 0 / avg 0 / score 5", entry)
	}

	// one member holding the skill at proficiency 4: gap = 5 - 4*1/1 = 1
	userID := registerUser(t, router, admin, "dev1", models.RoleUser)
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/users/%d/skills", userID), admin, gin.H{
		"skill_id":          skillID,
		"proficiency_level": 4,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add user skill: status %d body %s", w.Code, w.Body.String())
	}
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/projects/%d/members", projectID), admin, gin.H{"user_id": userID})
	if w.Code != http.StatusCreated {
		t.Fatalf("add member: status %d body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/projects/%d/skill-gap", projectID), admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("skill gap: status %d", w.Code)
	}
	gaps = decode(t, w)["skill_gap"].([]any)
	entry = gaps[0].(map[string]any)
	if entry["coverage"].(float64) != 1 {
		t.Errorf("coverage = %v, want 1", entry["coverage"])
	}
	if entry["avg_proficiency"].(float64) != 4 {
		t.Errorf("avg_proficiency = %v, want 4", entry["avg_proficiency"])
	}
	if entry["gap_score"].(float64) != 1 {
		t.Errorf("gap_score = %v, want 1", entry["gap_score"])
	}

	// unknown project is a 404
	w = doJSON(t, router, http.MethodGet, "/api/projects/99999/skill-gap", admin, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown project gap: status %d, want 404", w.Code)
	}
}

func TestFailedMutationsLeaveCollectionsUnchanged(t *testing.T) {
	router, _ := setupServer(t)
	admin := loginAs(t, router, "admin", "admin123")

	createEntity(t, router, admin, "/api/companies", gin.H{"name": "Acme"}, "company")

	before := doJSON(t, router, http.MethodGet, "/api/companies", admin, nil)
	if before.Code != http.StatusOK {
		t.Fatalf("list companies: status %d", before.Code)
	}

	// validation failure
	if w := doJSON(t, router, http.MethodPost, "/api/companies", admin, gin.H{"industry": "Software"}); w.Code != http.StatusBadRequest {
		t.Fatalf("company without name: status %d, want 400", w.Code)
	}
	// not-found failure
	if w := doJSON(t, router, http.MethodDelete, "/api/companies/99999", admin, nil); w.Code != http.StatusNotFound {
		t.Fatalf("delete unknown company: status %d, want 404", w.Code)
	}

	after := doJSON(t, router, http.MethodGet, "/api/companies", admin, nil)
	if after.Code != http.StatusOK {
		t.Fatalf("list companies: status %d", after.Code)
	}
	if before.Body.String() != after.Body.String() {
		t.Errorf("collection changed after failed mutations:\nbefore: %s\nafter:  %s", before.Body.String(), after.Body.String())
	}
}
