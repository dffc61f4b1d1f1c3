package payments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/davidreact/tenanthub1/models"
	"github.com/davidreact/tenanthub1/utils"
)

func setupTestDB(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Property{}, &models.TenantProperty{},
		&models.PaymentProof{}, &models.Notification{},
	))
	utils.DB = db
}

func authAs(user models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user", user)
		c.Next()
	}
}

func newRouter(user models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(authAs(user))
	r.POST("/tenant/payments", SubmitPaymentProof)
	r.GET("/tenant/payments", GetMyPayments)
	r.GET("/admin/payments", GetPayments)
	r.POST("/admin/payments/:id/review", ReviewPayment)
	return r
}

type fixture struct {
	admin  models.User
	tenant models.User
	lease  models.TenantProperty
}

func setupFixture(t *testing.T) fixture {
	setupTestDB(t)

	admin := models.User{Email: "admin@example.com", Password: "x", FullName: "Admin", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, utils.DB.Create(&admin).Error)

	tenant := models.User{Email: "tenant@example.com", Password: "x", FullName: "Tenant", Role: models.RoleTenant, IsActive: true}
	require.NoError(t, utils.DB.Create(&tenant).Error)

	property := models.Property{Name: "Unit 4", Address: "12 Main St", Status: models.PropertyOccupied}
	require.NoError(t, utils.DB.Create(&property).Error)

	lease := models.TenantProperty{
		TenantID:       tenant.ID,
		PropertyID:     property.ID,
		LeaseStartDate: time.Now().AddDate(0, -6, 0),
		LeaseEndDate:   time.Now().AddDate(0, 6, 0),
		MonthlyRent:    1200,
		Status:         models.LeaseActive,
	}
	require.NoError(t, utils.DB.Create(&lease).Error)

	return fixture{admin: admin, tenant: tenant, lease: lease}
}

func submitProof(t *testing.T, r *gin.Engine, monthYear string, amount float64) models.PaymentProof {
	body, _ := json.Marshal(gin.H{
		"month_year":   monthYear,
		"amount":       amount,
		"payment_date": time.Now(),
		"proof_url":    "https://example.com/proof.jpg",
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/tenant/payments", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Payment models.PaymentProof `json:"payment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Payment
}

func TestSubmitPaymentProofStartsPending(t *testing.T) {
	f := setupFixture(t)
	r := newRouter(f.tenant)

	proof := submitProof(t, r, "2024-03", 1200)

	assert.Equal(t, models.PaymentPending, proof.Status)
	assert.Nil(t, proof.VerifiedBy)
	assert.Nil(t, proof.AdminNotes)
	assert.Equal(t, f.lease.ID, proof.TenantPropertyID)
	assert.Equal(t, 1200.0, proof.Amount)
}

func TestSubmitPaymentProofRejectsBadMonthYear(t *testing.T) {
	f := setupFixture(t)
	r := newRouter(f.tenant)

	body, _ := json.Marshal(gin.H{
		"month_year":   "March 2024",
		"amount":       1200,
		"payment_date": time.Now(),
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/tenant/payments", bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewPaymentApproveSetsVerifiedBy(t *testing.T) {
	f := setupFixture(t)
	proof := submitProof(t, newRouter(f.tenant), "2024-03", 1200)

	r := newRouter(f.admin)
	body, _ := json.Marshal(gin.H{"decision": "approved"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/payments/"+proof.ID+"/review", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.PaymentProof
	require.NoError(t, utils.DB.First(&updated, "id = ?", proof.ID).Error)
	assert.Equal(t, models.PaymentApproved, updated.Status)
	require.NotNil(t, updated.VerifiedBy)
	assert.Equal(t, f.admin.ID, *updated.VerifiedBy)
	assert.Nil(t, updated.AdminNotes)
}

func TestReviewPaymentRejectLeavesVerifiedByNull(t *testing.T) {
	f := setupFixture(t)
	proof := submitProof(t, newRouter(f.tenant), "2024-04", 1200)

	r := newRouter(f.admin)
	body, _ := json.Marshal(gin.H{"decision": "rejected", "notes": "Amount does not match the rent"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/payments/"+proof.ID+"/review", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.PaymentProof
	require.NoError(t, utils.DB.First(&updated, "id = ?", proof.ID).Error)
	assert.Equal(t, models.PaymentRejected, updated.Status)
	assert.Nil(t, updated.VerifiedBy)
	require.NotNil(t, updated.AdminNotes)
	assert.Equal(t, "Amount does not match the rent", *updated.AdminNotes)
}

func TestReviewPaymentIsTerminal(t *testing.T) {
	f := setupFixture(t)
	proof := submitProof(t, newRouter(f.tenant), "2024-05", 1200)

	r := newRouter(f.admin)
	body, _ := json.Marshal(gin.H{"decision": "approved"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/payments/"+proof.ID+"/review", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)

	// A second review must not silently overwrite the decision.
	body, _ = json.Marshal(gin.H{"decision": "rejected"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/payments/"+proof.ID+"/review", bytes.NewReader(body)))
	assert.Equal(t, http.StatusConflict, w.Code)

	var updated models.PaymentProof
	require.NoError(t, utils.DB.First(&updated, "id = ?", proof.ID).Error)
	assert.Equal(t, models.PaymentApproved, updated.Status)
}

func TestReviewPaymentRequiresAdmin(t *testing.T) {
	f := setupFixture(t)
	proof := submitProof(t, newRouter(f.tenant), "2024-06", 1200)

	r := newRouter(f.tenant)
	body, _ := json.Marshal(gin.H{"decision": "approved"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/payments/"+proof.ID+"/review", bytes.NewReader(body)))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

// conflictingBody serves the request body, running fn once before the first
// read. ReviewPayment binds its input between loading the row and the
// version-guarded update, which is the window a concurrent reviewer hits.
type conflictingBody struct {
	reader *bytes.Reader
	fn     func()
	fired  bool
}

func (b *conflictingBody) Read(p []byte) (int, error) {
	if !b.fired {
		b.fired = true
		b.fn()
	}
	return b.reader.Read(p)
}

func TestReviewPaymentStaleVersionConflict(t *testing.T) {
	f := setupFixture(t)
	proof := submitProof(t, newRouter(f.tenant), "2024-03", 1200)

	body, _ := json.Marshal(gin.H{"decision": models.PaymentApproved})
	req := httptest.NewRequest(http.MethodPost, "/admin/payments/"+proof.ID+"/review", &conflictingBody{
		reader: bytes.NewReader(body),
		fn: func() {
			require.NoError(t, utils.DB.Model(&models.PaymentProof{}).
				Where("id = ?", proof.ID).
				Update("version", gorm.Expr("version + 1")).Error)
		},
	})
	w := httptest.NewRecorder()
	newRouter(f.admin).ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrConcurrentModification.Error())

	// The losing write must not have changed the row.
	var stored models.PaymentProof
	require.NoError(t, utils.DB.First(&stored, "id = ?", proof.ID).Error)
	assert.Equal(t, models.PaymentPending, stored.Status)
	assert.Nil(t, stored.VerifiedBy)
}

func TestGetMyPaymentsSurfacesLeaseQueryError(t *testing.T) {
	f := setupFixture(t)
	r := newRouter(f.tenant)

	require.NoError(t, utils.DB.Migrator().DropTable(&models.TenantProperty{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tenant/payments", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetMyPaymentsOrderedByMonth(t *testing.T) {
	f := setupFixture(t)
	r := newRouter(f.tenant)

	submitProof(t, r, "2024-01", 1200)
	submitProof(t, r, "2024-03", 1200)
	submitProof(t, r, "2024-02", 1200)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tenant/payments", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Payments []models.PaymentProof `json:"payments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Payments, 3)
	assert.Equal(t, "2024-03", resp.Payments[0].MonthYear)
	assert.Equal(t, "2024-01", resp.Payments[2].MonthYear)
}
