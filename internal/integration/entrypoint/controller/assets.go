// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smart-expense/backend/internal/application/usecase/assetcache"
	"github.com/smart-expense/backend/internal/integration/entrypoint/dto"
)

// AssetsController serves SPA assets through the offline asset cache.
type AssetsController struct {
	cache *assetcache.Cache
}

// NewAssetsController creates a new assets controller instance.
func NewAssetsController(cache *assetcache.Cache) *AssetsController {
	return &AssetsController{
		cache: cache,
	}
}

// Serve handles GET /assets/*path requests. The cache decides whether the
// response comes from its bucket or straight from the origin.
func (c *AssetsController) Serve(ctx *gin.Context) {
	path := ctx.Param("path")
	if path == "" {
		path = "/"
	}

	asset, err := c.cache.Fetch(ctx.Request.Context(), path)
	if err != nil {
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{
			Error: "Failed to fetch asset",
		})
		return
	}

	contentType := asset.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ctx.Data(http.StatusOK, contentType, asset.Body)
}
