package payments

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davidreact/tenanthub1/handlers/auth"
	"github.com/davidreact/tenanthub1/models"
	"github.com/davidreact/tenanthub1/utils"
)

var monthYearPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// SubmitPaymentProof records a rent payment against the caller's active
// lease. Proofs always start out pending.
func SubmitPaymentProof(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		MonthYear   string    `json:"month_year"`
		Amount      float64   `json:"amount"`
		PaymentDate time.Time `json:"payment_date"`
		ProofURL    string    `json:"proof_url"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	if !monthYearPattern.MatchString(input.MonthYear) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month_year must be in YYYY-MM format"})
		return
	}
	if input.Amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must not be negative"})
		return
	}

	var lease models.TenantProperty
	if err := utils.DB.Where("tenant_id = ? AND status = ?", user.ID, models.LeaseActive).
		First(&lease).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active lease found"})
		return
	}

	proof := models.PaymentProof{
		TenantPropertyID: lease.ID,
		MonthYear:        input.MonthYear,
		Amount:           input.Amount,
		PaymentDate:      input.PaymentDate,
		ProofURL:         input.ProofURL,
		Status:           models.PaymentPending,
	}

	if err := utils.DB.Create(&proof).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit payment proof"})
		return
	}

	utils.NotifyAllAdmins(user.ID, "Submitted payment proof", "payment", proof.ID, map[string]interface{}{
		"monthYear": proof.MonthYear,
		"amount":    proof.Amount,
	})

	c.JSON(http.StatusCreated, gin.H{"payment": proof})
}

// GetMyPayments lists the caller's payment proofs, newest month first.
func GetMyPayments(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var leaseIDs []string
	if err := utils.DB.Model(&models.TenantProperty{}).
		Where("tenant_id = ?", user.ID).Pluck("id", &leaseIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	var payments []models.PaymentProof
	if len(leaseIDs) > 0 {
		if err := utils.DB.Where("tenant_property_id IN ?", leaseIDs).
			Order("month_year DESC").Find(&payments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// GetPayments lists all payment proofs for admin review, with the lease,
// tenant and property embedded.
func GetPayments(c *gin.Context) {
	query := utils.DB.Preload("TenantProperty.Tenant").Preload("TenantProperty.Property").
		Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var payments []models.PaymentProof
	if err := query.Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// ReviewPayment approves or rejects a pending proof. Approved and rejected
// are terminal; verified_by is set only on approval.
func ReviewPayment(c *gin.Context) {
	admin, ok := auth.CurrentUser(c)
	if !ok || !auth.CanPerform(admin, auth.ActionReviewWork, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var proof models.PaymentProof
	if err := utils.DB.First(&proof, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment proof not found"})
		return
	}

	if proof.Reviewed() {
		c.JSON(http.StatusConflict, gin.H{"error": models.ErrAlreadyReviewed.Error()})
		return
	}

	var input struct {
		Decision string  `json:"decision"`
		Notes    *string `json:"notes"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	if input.Decision != models.PaymentApproved && input.Decision != models.PaymentRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Decision must be approved or rejected"})
		return
	}

	updates := map[string]interface{}{
		"status":      input.Decision,
		"admin_notes": input.Notes,
		"version":     proof.Version + 1,
	}
	if input.Decision == models.PaymentApproved {
		updates["verified_by"] = admin.ID
	} else {
		updates["verified_by"] = nil
	}

	// CAS guard: only one review of a pending proof can win.
	result := utils.DB.Model(&models.PaymentProof{}).
		Where("id = ? AND version = ? AND status = ?", proof.ID, proof.Version, models.PaymentPending).
		Updates(updates)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment status"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": models.ErrConcurrentModification.Error()})
		return
	}

	var lease models.TenantProperty
	if err := utils.DB.First(&lease, "id = ?", proof.TenantPropertyID).Error; err == nil {
		title := "Payment approved"
		notifType := models.NotifySuccess
		message := "Your payment for " + proof.MonthYear + " has been approved."
		if input.Decision == models.PaymentRejected {
			title = "Payment rejected"
			notifType = models.NotifyError
			message = "Your payment for " + proof.MonthYear + " has been rejected. Please contact your property manager."
		}
		utils.CreateNotification(utils.NotificationParams{
			UserID:            lease.TenantID,
			Title:             title,
			Message:           message,
			Type:              notifType,
			RelatedEntityType: "payment",
			RelatedEntityID:   proof.ID,
		})
	}

	utils.NotifyAllAdmins(admin.ID, "Reviewed payment proof ("+input.Decision+")", "payment", proof.ID, nil)

	utils.DB.First(&proof, "id = ?", proof.ID)
	c.JSON(http.StatusOK, gin.H{"payment": proof})
}
