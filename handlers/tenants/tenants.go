package tenants

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/davidreact/tenanthub1/handlers/auth"
	"github.com/davidreact/tenanthub1/models"
	"github.com/davidreact/tenanthub1/utils"
)

func GetTenants(c *gin.Context) {
	var tenants []models.User
	if err := utils.DB.Where("role = ?", models.RoleTenant).
		Order("created_at DESC").Find(&tenants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tenants"})
		return
	}

	// Attach each tenant's active lease, if any.
	tenantIDs := make([]string, 0, len(tenants))
	for _, t := range tenants {
		tenantIDs = append(tenantIDs, t.ID)
	}

	var leases []models.TenantProperty
	if len(tenantIDs) > 0 {
		utils.DB.Preload("Property").
			Where("tenant_id IN ? AND status = ?", tenantIDs, models.LeaseActive).
			Find(&leases)
	}

	leaseByTenant := make(map[string]models.TenantProperty, len(leases))
	for _, l := range leases {
		leaseByTenant[l.TenantID] = l
	}

	result := make([]gin.H, 0, len(tenants))
	for _, t := range tenants {
		entry := gin.H{"tenant": t}
		if lease, ok := leaseByTenant[t.ID]; ok {
			entry["lease"] = lease
		}
		result = append(result, entry)
	}

	c.JSON(http.StatusOK, gin.H{"tenants": result})
}

// CreateTenant provisions a tenant account with a temporary password,
// emails the credentials and writes an admin audit log entry.
func CreateTenant(c *gin.Context) {
	admin, ok := auth.CurrentUser(c)
	if !ok || !auth.CanPerform(admin, auth.ActionManage, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	if input.Email == "" || input.Password == "" || input.FullName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email, password, and full name are required"})
		return
	}

	var existing models.User
	if err := utils.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	tenant := models.User{
		Email:    input.Email,
		Password: string(hashedPassword),
		FullName: input.FullName,
		Role:     models.RoleTenant,
		IsActive: true,
	}

	if err := utils.DB.Create(&tenant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tenant profile"})
		return
	}

	go utils.SendWelcomeEmail(tenant.Email, tenant.FullName, input.Password)

	utils.NotifyAllAdmins(admin.ID, "Created new tenant", "tenant", tenant.ID, map[string]interface{}{
		"tenantName":  tenant.FullName,
		"tenantEmail": tenant.Email,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tenant " + tenant.FullName + " has been created successfully.",
		"tenant": gin.H{
			"id":        tenant.ID,
			"email":     tenant.Email,
			"full_name": tenant.FullName,
		},
	})
}

// SetTenantActive toggles the is_active flag on a tenant account.
func SetTenantActive(c *gin.Context) {
	admin, ok := auth.CurrentUser(c)
	if !ok || !auth.CanPerform(admin, auth.ActionManage, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var tenant models.User
	if err := utils.DB.Where("role = ?", models.RoleTenant).
		First(&tenant, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tenant not found"})
		return
	}

	var input struct {
		IsActive *bool `json:"is_active"`
	}

	if err := c.ShouldBindJSON(&input); err != nil || input.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_active is required"})
		return
	}

	if err := utils.DB.Model(&tenant).Update("is_active", *input.IsActive).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tenant"})
		return
	}

	action := "Deactivated tenant"
	if *input.IsActive {
		action = "Activated tenant"
	}
	utils.NotifyAllAdmins(admin.ID, action, "tenant", tenant.ID, map[string]interface{}{
		"tenantName": tenant.FullName,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Tenant updated successfully"})
}
