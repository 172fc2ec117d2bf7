package v1

import (
	"github.com/agro-export/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// @title Agro Export Backend API
// @version 1.0
// @description Account recovery for the dashboard users

// @BasePath /api/v1

type Handler struct {
	services *service.Services
}

func NewHandler(services *service.Services) *Handler {
	return &Handler{
		services: services,
	}
}

func (h *Handler) Init(api *gin.RouterGroup) {
	v1 := api.Group("v1")

	h.initPasswordResetRoutes(v1)
}
