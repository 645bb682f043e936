package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mycoder/solutions_api/internal/models"
	"github.com/mycoder/solutions_api/internal/service"
	"github.com/mycoder/solutions_api/internal/utils"
)

// CatalogHandler handles catalog, pricing and bundle endpoints.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListEntries handles GET /v1/catalog?q=&category=&billing=
func (h *CatalogHandler) ListEntries(c *gin.Context) {
	categories, hasCategories := c.GetQueryArray("category")
	filter, err := h.catalogService.BuildFilter(service.FilterParams{
		Query:         c.Query("q"),
		Categories:    categories,
		HasCategories: hasCategories,
		Billing:       c.Query("billing"),
	})
	if err != nil {
		if errors.Is(err, utils.ErrInvalidBilling) {
			utils.Error(c, 400, "INVALID_BILLING", "billing must be one of all, oneTime, monthly")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to build filter")
		return
	}

	entries := h.catalogService.ListEntries(filter)
	utils.SuccessWithCount(c, 200, "Catalog retrieved", entries, len(entries))
}

// GetEntry handles GET /v1/catalog/:id
func (h *CatalogHandler) GetEntry(c *gin.Context) {
	entry, err := h.catalogService.GetEntry(c.Param("id"))
	if err != nil {
		utils.Error(c, 404, "ENTRY_NOT_FOUND", "Catalog entry not found")
		return
	}
	utils.Success(c, 200, "Catalog entry retrieved", entry)
}

// GetCategories handles GET /v1/catalog/categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories := h.catalogService.Categories()
	utils.SuccessWithCount(c, 200, "Categories retrieved", categories, len(categories))
}

// GetBundles handles GET /v1/bundles
func (h *CatalogHandler) GetBundles(c *gin.Context) {
	bundles := h.catalogService.Bundles()
	utils.SuccessWithCount(c, 200, "Bundles retrieved", bundles, len(bundles))
}

// GetPriceRange handles GET /v1/pricing/range?model=&tier=
// Unknown (model, tier) pairs answer with a zero band.
func (h *CatalogHandler) GetPriceRange(c *gin.Context) {
	tier, err := strconv.Atoi(c.Query("tier"))
	if err != nil {
		utils.Error(c, 400, "INVALID_TIER", "tier must be a number")
		return
	}
	model := models.Model(c.Query("model"))
	band := h.catalogService.PriceRange(model, models.Tier(tier))

	utils.Success(c, 200, "Price range retrieved", gin.H{
		"model":      model,
		"tier":       tier,
		"min":        band.Min,
		"max":        band.Max,
		"priceLabel": utils.FormatUSDRange(band.Min, band.Max),
	})
}
