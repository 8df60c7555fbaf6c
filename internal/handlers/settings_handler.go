package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"shop_backend/internal/services"
)

type SettingsHandler struct {
	settingsService services.SettingsService
	branchService   services.BranchService
	currencyService *services.CurrencyService
}

func NewSettingsHandler(
	settingsService services.SettingsService,
	branchService services.BranchService,
	currencyService *services.CurrencyService,
) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		branchService:   branchService,
		currencyService: currencyService,
	}
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.Get()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) UpdateShippingCost(c *gin.Context) {
	var req struct {
		ShippingCost decimal.Decimal `json:"shipping_cost"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	settings, err := h.settingsService.UpdateShippingCost(req.ShippingCost)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// RefreshRate triggers an immediate exchange rate update outside the daily
// schedule.
func (h *SettingsHandler) RefreshRate(c *gin.Context) {
	if err := h.currencyService.RefreshRate(); err != nil {
		respondError(c, err)
		return
	}

	settings, err := h.settingsService.Get()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) GetBranches(c *gin.Context) {
	branches, err := h.branchService.ActiveBranches()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, branches)
}

func (h *SettingsHandler) CreateBranch(c *gin.Context) {
	var req services.BranchInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	branch, err := h.branchService.CreateBranch(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, branch)
}

func (h *SettingsHandler) UpdateBranch(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.BranchInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	branch, err := h.branchService.UpdateBranch(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, branch)
}

func (h *SettingsHandler) DeleteBranch(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.branchService.DeleteBranch(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
