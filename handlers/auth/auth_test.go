package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/davidreact/tenanthub1/models"
	"github.com/davidreact/tenanthub1/utils"
)

func setupTestDB(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.UserPreference{}))
	utils.DB = db
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/register", Register)
	r.POST("/login", Login)
	r.POST("/refresh", Refresh)
	protected := r.Group("/")
	protected.Use(AuthMiddleware())
	protected.POST("/logout", Logout)
	protected.GET("/profile", GetProfile)
	protected.PUT("/preferences", UpdatePreferences)
	admin := protected.Group("/admin")
	admin.Use(AdminOnly())
	admin.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	return r
}

func createUser(t *testing.T, email, password, role string, active bool) models.User {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := models.User{Email: email, Password: string(hashed), FullName: "User", Role: role, IsActive: active}
	require.NoError(t, utils.DB.Create(&user).Error)
	return user
}

func login(t *testing.T, r *gin.Engine, email, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(gin.H{"email": email, "password": password})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body)))
	return w
}

func TestLoginReturnsToken(t *testing.T) {
	setupTestDB(t)
	createUser(t, "tenant@example.com", "secret123", models.RoleTenant, true)

	r := newRouter()
	w := login(t, r, "tenant@example.com", "secret123")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	// The token must be accepted by the middleware.
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	setupTestDB(t)
	createUser(t, "tenant@example.com", "secret123", models.RoleTenant, true)

	r := newRouter()
	w := login(t, r, "tenant@example.com", "secret123")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// The same token must no longer be accepted.
	req = httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshIssuesNewTokenPair(t *testing.T) {
	setupTestDB(t)
	createUser(t, "tenant@example.com", "secret123", models.RoleTenant, true)

	r := newRouter()
	w := login(t, r, "tenant@example.com", "secret123")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.RefreshToken)

	body, _ := json.Marshal(gin.H{"refresh_token": resp.RefreshToken})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)

	var refreshed struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))
	assert.NotEmpty(t, refreshed.Token)
	assert.NotEmpty(t, refreshed.RefreshToken)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+refreshed.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRefreshRejectsTokenAfterLogout(t *testing.T) {
	setupTestDB(t)
	createUser(t, "tenant@example.com", "secret123", models.RoleTenant, true)

	r := newRouter()
	w := login(t, r, "tenant@example.com", "secret123")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body, _ := json.Marshal(gin.H{"refresh_token": resp.RefreshToken})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	setupTestDB(t)
	createUser(t, "tenant@example.com", "secret123", models.RoleTenant, true)

	w := login(t, newRouter(), "tenant@example.com", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	setupTestDB(t)
	createUser(t, "tenant@example.com", "secret123", models.RoleTenant, false)

	w := login(t, newRouter(), "tenant@example.com", "secret123")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegisterCreatesTenantAccount(t *testing.T) {
	setupTestDB(t)
	r := newRouter()

	body, _ := json.Marshal(gin.H{"email": "new@example.com", "password": "secret123", "full_name": "New Tenant"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, utils.DB.Where("email = ?", "new@example.com").First(&user).Error)
	assert.Equal(t, models.RoleTenant, user.Role)
	assert.True(t, user.IsActive)
	// Passwords are never stored in the clear.
	assert.NotEqual(t, "secret123", user.Password)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	setupTestDB(t)
	createUser(t, "taken@example.com", "secret123", models.RoleTenant, true)

	r := newRouter()
	body, _ := json.Marshal(gin.H{"email": "taken@example.com", "password": "secret123", "full_name": "Dup"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body)))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminOnlyBlocksTenants(t *testing.T) {
	setupTestDB(t)
	createUser(t, "tenant@example.com", "secret123", models.RoleTenant, true)
	createUser(t, "admin@example.com", "secret123", models.RoleAdmin, true)

	r := newRouter()

	w := login(t, r, "tenant@example.com", "secret123")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = login(t, r, "admin@example.com", "secret123")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdatePreferencesUpserts(t *testing.T) {
	setupTestDB(t)
	createUser(t, "tenant@example.com", "secret123", models.RoleTenant, true)

	r := newRouter()
	w := login(t, r, "tenant@example.com", "secret123")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	for _, lang := range []string{"de", "en"} {
		body, _ := json.Marshal(gin.H{"language": lang})
		req := httptest.NewRequest(http.MethodPut, "/preferences", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+resp.Token)
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	var count int64
	utils.DB.Model(&models.UserPreference{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var pref models.UserPreference
	require.NoError(t, utils.DB.First(&pref).Error)
	assert.Equal(t, "en", pref.Language)
}

func TestCanPerform(t *testing.T) {
	admin := models.User{ID: "admin-1", Role: models.RoleAdmin, IsActive: true}
	tenant := models.User{ID: "tenant-1", Role: models.RoleTenant, IsActive: true}
	inactive := models.User{ID: "tenant-2", Role: models.RoleTenant, IsActive: false}

	assert.True(t, CanPerform(admin, ActionManage, ""))
	assert.True(t, CanPerform(admin, ActionReviewWork, ""))
	assert.True(t, CanPerform(admin, ActionReadOwn, "tenant-1"))

	assert.False(t, CanPerform(tenant, ActionManage, ""))
	assert.False(t, CanPerform(tenant, ActionReviewWork, ""))
	assert.True(t, CanPerform(tenant, ActionReadOwn, "tenant-1"))
	assert.True(t, CanPerform(tenant, ActionWriteOwn, "tenant-1"))
	assert.False(t, CanPerform(tenant, ActionWriteOwn, "tenant-9"))

	assert.False(t, CanPerform(inactive, ActionReadOwn, "tenant-2"))
	assert.False(t, CanPerform(admin, "unknown", ""))
}
