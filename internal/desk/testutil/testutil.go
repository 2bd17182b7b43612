package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/bitfantasy/assetdesk/internal/desk/entity"
	"github.com/bitfantasy/assetdesk/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "assetdesk-test-secret"

// TestEnv holds test environment resources
type TestEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
	T      *testing.T
}

// SetupTestDB opens a throwaway sqlite database with every desk table
// migrated. One connection keeps transactions and plain queries on the same
// handle.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "desk.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(entity.AllModels()...); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid JWT token for testing
func GenerateTestToken(userID, email string, role entity.Role) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"uid":   userID,
		"email": email,
		"role":  string(role),
		"iss":   "assetdesk",
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
		"jti":   fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// TokenFor returns a token for a seeded user
func TokenFor(u *entity.User) string {
	return GenerateTestToken(u.ID, u.Email, u.Role)
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a handler.Response-like map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedUser creates a login account
func SeedUser(t *testing.T, db *gorm.DB, id, email string, role entity.Role) *entity.User {
	t.Helper()
	user := &entity.User{
		ID:        id,
		Email:     email,
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

// SeedEmployee creates a staff record
func SeedEmployee(t *testing.T, db *gorm.DB, id, name, email string) *entity.Employee {
	t.Helper()
	emp := &entity.Employee{
		ID:         id,
		Name:       name,
		Email:      email,
		Department: "IT",
		DateJoined: time.Now(),
	}
	if err := db.Create(emp).Error; err != nil {
		t.Fatalf("Failed to seed employee: %v", err)
	}
	return emp
}

// SeedVendor creates a supplier
func SeedVendor(t *testing.T, db *gorm.DB, id, name, email string) *entity.Vendor {
	t.Helper()
	v := &entity.Vendor{
		ID:          id,
		Name:        name,
		Email:       email,
		ServiceType: "hardware",
	}
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("Failed to seed vendor: %v", err)
	}
	return v
}

// ComplaintSeed optional complaint fields
type ComplaintSeed struct {
	Title       string
	Description string
	Status      entity.ComplaintStatus
	Reason      string
	Notes       string
	AssignedTo  *string
	Submitted   time.Time
	Updated     time.Time
}

// SeedComplaint creates a complaint for employeeID
func SeedComplaint(t *testing.T, db *gorm.DB, id, employeeID string, s ComplaintSeed) *entity.Complaint {
	t.Helper()
	now := time.Now().UTC()
	if s.Title == "" {
		s.Title = "Complaint " + id
	}
	if s.Description == "" {
		s.Description = "Description for " + id
	}
	if s.Status == "" {
		s.Status = entity.ComplaintStatusOpen
	}
	if s.Submitted.IsZero() {
		s.Submitted = now
	}
	if s.Updated.IsZero() {
		s.Updated = s.Submitted
	}
	c := &entity.Complaint{
		ID:                      id,
		EmployeeID:              employeeID,
		Title:                   s.Title,
		Description:             s.Description,
		Priority:                entity.PriorityMedium,
		Status:                  s.Status,
		ComponentPurchaseReason: s.Reason,
		ResolutionNotes:         s.Notes,
		AssignedTo:              s.AssignedTo,
		DateSubmitted:           s.Submitted,
		LastUpdated:             s.Updated,
	}
	if s.Status == entity.ComplaintStatusResolved {
		c.ResolutionDate = &s.Updated
	}
	if err := db.Omit("Employee").Create(c).Error; err != nil {
		t.Fatalf("Failed to seed complaint: %v", err)
	}
	return c
}
