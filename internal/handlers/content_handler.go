package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/models"
	"shop_backend/internal/services"
)

type ContentHandler struct {
	contentService services.ContentService
	media          services.MediaStorage
}

func NewContentHandler(contentService services.ContentService, media services.MediaStorage) *ContentHandler {
	return &ContentHandler{contentService: contentService, media: media}
}

func (h *ContentHandler) GetBanners(c *gin.Context) {
	banners, err := h.contentService.Banners(models.BannerType(c.Query("type")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, banners)
}

// CreateBanner takes a multipart form: an image file plus a "data" field
// holding the JSON attributes.
func (h *ContentHandler) CreateBanner(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
		return
	}

	var req services.BannerInput
	if data := c.PostForm("data"); data != "" {
		if err := json.Unmarshal([]byte(data), &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	url, key, err := h.media.Upload(file, "banners")
	if err != nil {
		respondError(c, err)
		return
	}

	banner, err := h.contentService.CreateBanner(req, url, key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, banner)
}

func (h *ContentHandler) UpdateBanner(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.BannerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	banner, err := h.contentService.UpdateBanner(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, banner)
}

func (h *ContentHandler) DeleteBanner(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.contentService.DeleteBanner(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *ContentHandler) GetBrands(c *gin.Context) {
	brands, err := h.contentService.Brands()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, brands)
}

func (h *ContentHandler) CreateBrand(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
		return
	}

	var req services.BrandInput
	if data := c.PostForm("data"); data != "" {
		if err := json.Unmarshal([]byte(data), &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	url, key, err := h.media.Upload(file, "brands")
	if err != nil {
		respondError(c, err)
		return
	}

	brand, err := h.contentService.CreateBrand(req, url, key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, brand)
}

func (h *ContentHandler) UpdateBrand(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.BrandInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	brand, err := h.contentService.UpdateBrand(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, brand)
}

func (h *ContentHandler) DeleteBrand(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.contentService.DeleteBrand(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *ContentHandler) GetSections(c *gin.Context) {
	sections, err := h.contentService.Sections()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sections)
}

func (h *ContentHandler) GetSection(c *gin.Context) {
	section, err := h.contentService.GetSection(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, section)
}

func (h *ContentHandler) CreateSection(c *gin.Context) {
	var req services.SectionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	section, err := h.contentService.CreateSection(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, section)
}

func (h *ContentHandler) SetSectionProducts(c *gin.Context) {
	var req struct {
		ProductIDs []uint `json:"product_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	section, err := h.contentService.SetSectionProducts(c.Param("code"), req.ProductIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, section)
}

func (h *ContentHandler) DeleteSection(c *gin.Context) {
	if err := h.contentService.DeleteSection(c.Param("code")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *ContentHandler) SubmitContact(c *gin.Context) {
	var req services.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	contact, err := h.contentService.SubmitContact(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (h *ContentHandler) GetContacts(c *gin.Context) {
	contacts, err := h.contentService.Contacts()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}
