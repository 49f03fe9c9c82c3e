package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mesadigital/restaurante_backend/models"
	"github.com/mesadigital/restaurante_backend/utils"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func loginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	tenant, err := models.GetTenantByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "credenciais inválidas"})
		return
	}
	if err := utils.ComparePassword(tenant.PasswordHash, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "credenciais inválidas"})
		return
	}

	token, err := utils.JwtGenerate(tenant.ID, tenant.Name, "tenant")
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"tenant": gin.H{
			"id":          tenant.ID,
			"name":        tenant.Name,
			"slug":        tenant.Slug,
			"plan_status": tenant.PlanStatus,
		},
	})
}

func registerHandler(c *gin.Context) {
	var req models.NewTenant
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	tenant, err := models.CreateTenant(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := utils.JwtGenerate(tenant.ID, tenant.Name, "tenant")
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"tenant": gin.H{
			"id":   tenant.ID,
			"name": tenant.Name,
			"slug": tenant.Slug,
		},
	})
}
