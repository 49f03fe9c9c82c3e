package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mesadigital/restaurante_backend/models"
	"github.com/mesadigital/restaurante_backend/utils"
)

// PlanMiddleware gates staff routes on the billing flag the payment webhook
// maintains. Inactive tenants can still log in, but the panel stays locked.
func PlanMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantId, ok := utils.GetTenantIdFromContext(c.Request.Context())
		if !ok || tenantId <= 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			c.Abort()
			return
		}

		tenant, err := models.GetTenant(c.Request.Context(), tenantId)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			c.Abort()
			return
		}
		if tenant.PlanStatus != models.PlanStatusActive {
			c.JSON(http.StatusPaymentRequired, gin.H{"success": false, "message": "assinatura inativa"})
			c.Abort()
			return
		}
		c.Next()
	}
}
