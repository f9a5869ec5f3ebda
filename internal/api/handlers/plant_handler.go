package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/warinyupa/stocklens/internal/repository"
)

type PlantHandler struct {
	repo repository.PlantRepository
}

func NewPlantHandler(repo repository.PlantRepository) *PlantHandler {
	return &PlantHandler{repo: repo}
}

func (h *PlantHandler) GetPlants(c *gin.Context) {
	plants, err := h.repo.ListPlants(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch plants", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, plants)
}
