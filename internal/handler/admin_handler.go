package handler

import (
	"log"
	"net/http"

	"gamescope/app/internal/config"
	"gamescope/app/internal/database"
	"gamescope/app/internal/seed"

	"github.com/gin-gonic/gin"
)

// SeedResponse reports a catalog reload.
type SeedResponse struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// ReloadCatalog godoc
// @Summary      Reload the game catalog
// @Description  Re-reads SEED_FILE and creates the games that do not exist yet. Existing games are not modified.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  SeedResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      409  {object}  ErrorResponse "No seed file configured"
// @Failure      500  {object}  ErrorResponse
// @Router       /admin/catalog/reload [post]
func ReloadCatalog(c *gin.Context) {
	path := config.AppConfig.SeedFile
	if path == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "No seed file configured"})
		return
	}

	file, err := seed.Load(path)
	if err != nil {
		log.Printf("Failed to load seed file %s: %v", path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load seed file"})
		return
	}

	res, err := seed.Apply(c.Request.Context(), database.Documents, file)
	if err != nil {
		log.Printf("Failed to apply seed file %s: %v", path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply seed file"})
		return
	}

	c.JSON(http.StatusOK, SeedResponse{Created: res.Created, Skipped: res.Skipped})
}
