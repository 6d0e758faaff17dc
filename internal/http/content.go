package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dashboard/internal/domain"
	"dashboard/internal/service"
)

type brandReq struct {
	Name       string `json:"name" binding:"required,notblank"`
	ImageURL   string `json:"imageUrl"`
	CategoryID string `json:"categoryId" binding:"required,notblank"`
}

type brandPatchReq struct {
	Name       *string `json:"name" binding:"omitempty,notblank"`
	ImageURL   *string `json:"imageUrl"`
	CategoryID *string `json:"categoryId" binding:"omitempty,notblank"`
}

type promoImageReq struct {
	Title    string `json:"title" binding:"required,notblank"`
	ImageURL string `json:"imageUrl"`
}

type promoImagePatchReq struct {
	Title    *string `json:"title" binding:"omitempty,notblank"`
	ImageURL *string `json:"imageUrl"`
}

type socialLinkReq struct {
	Type string `json:"type" binding:"required,notblank"`
	URL  string `json:"url" binding:"required,http_url"`
}

type socialLinkPatchReq struct {
	Type *string `json:"type" binding:"omitempty,notblank"`
	URL  *string `json:"url" binding:"omitempty,http_url"`
}

// Brand handlers

// @Summary List brands
// @Tags brands
// @Produce json
// @Success 200 {array} domain.Brand
// @Router /brands [get]
func (s *Server) listBrands(c *gin.Context) {
	list, err := s.svc.Brands.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get brand
// @Tags brands
// @Produce json
// @Param id path string true "Brand ID"
// @Success 200 {object} domain.Brand
// @Failure 404 {object} map[string]string
// @Router /brands/{id} [get]
func (s *Server) getBrand(c *gin.Context) {
	b, err := s.svc.Brands.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// @Summary Create brand
// @Tags brands
// @Accept json
// @Produce json
// @Param input body brandReq true "Brand"
// @Success 201 {object} domain.Brand
// @Failure 400 {object} map[string]string
// @Router /brands [post]
func (s *Server) createBrand(c *gin.Context) {
	var req brandReq
	if !bindJSON(c, &req) {
		return
	}
	b, err := s.svc.Brands.Create(c.Request.Context(), domain.Brand{Name: req.Name, ImageURL: req.ImageURL, CategoryID: req.CategoryID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// @Summary Update brand
// @Tags brands
// @Accept json
// @Produce json
// @Param id path string true "Brand ID"
// @Param input body brandPatchReq true "Fields to change"
// @Success 200 {object} domain.Brand
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /brands/{id} [put]
func (s *Server) updateBrand(c *gin.Context) {
	var req brandPatchReq
	if !bindJSON(c, &req) {
		return
	}
	b, err := s.svc.Brands.Update(c.Request.Context(), c.Param("id"), service.BrandPatch(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// @Summary Delete brand
// @Tags brands
// @Param id path string true "Brand ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /brands/{id} [delete]
func (s *Server) deleteBrand(c *gin.Context) {
	if err := s.svc.Brands.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Promo image handlers

// @Summary List promo images
// @Tags promo-images
// @Produce json
// @Success 200 {array} domain.PromoImage
// @Router /promo-images [get]
func (s *Server) listPromoImages(c *gin.Context) {
	list, err := s.svc.PromoImages.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get promo image
// @Tags promo-images
// @Produce json
// @Param id path string true "Promo image ID"
// @Success 200 {object} domain.PromoImage
// @Failure 404 {object} map[string]string
// @Router /promo-images/{id} [get]
func (s *Server) getPromoImage(c *gin.Context) {
	p, err := s.svc.PromoImages.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Create promo image
// @Tags promo-images
// @Accept json
// @Produce json
// @Param input body promoImageReq true "Promo image"
// @Success 201 {object} domain.PromoImage
// @Failure 400 {object} map[string]string
// @Router /promo-images [post]
func (s *Server) createPromoImage(c *gin.Context) {
	var req promoImageReq
	if !bindJSON(c, &req) {
		return
	}
	p, err := s.svc.PromoImages.Create(c.Request.Context(), domain.PromoImage{Title: req.Title, ImageURL: req.ImageURL})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary Update promo image
// @Tags promo-images
// @Accept json
// @Produce json
// @Param id path string true "Promo image ID"
// @Param input body promoImagePatchReq true "Fields to change"
// @Success 200 {object} domain.PromoImage
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /promo-images/{id} [put]
func (s *Server) updatePromoImage(c *gin.Context) {
	var req promoImagePatchReq
	if !bindJSON(c, &req) {
		return
	}
	p, err := s.svc.PromoImages.Update(c.Request.Context(), c.Param("id"), service.PromoImagePatch(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Delete promo image
// @Tags promo-images
// @Param id path string true "Promo image ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /promo-images/{id} [delete]
func (s *Server) deletePromoImage(c *gin.Context) {
	if err := s.svc.PromoImages.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Social link handlers

// @Summary List social links
// @Tags social-links
// @Produce json
// @Success 200 {array} domain.SocialLink
// @Router /social-links [get]
func (s *Server) listSocialLinks(c *gin.Context) {
	list, err := s.svc.SocialLinks.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get social link
// @Tags social-links
// @Produce json
// @Param id path string true "Social link ID"
// @Success 200 {object} domain.SocialLink
// @Failure 404 {object} map[string]string
// @Router /social-links/{id} [get]
func (s *Server) getSocialLink(c *gin.Context) {
	l, err := s.svc.SocialLinks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// @Summary Create social link
// @Tags social-links
// @Accept json
// @Produce json
// @Param input body socialLinkReq true "Social link"
// @Success 201 {object} domain.SocialLink
// @Failure 400 {object} map[string]string
// @Router /social-links [post]
func (s *Server) createSocialLink(c *gin.Context) {
	var req socialLinkReq
	if !bindJSON(c, &req) {
		return
	}
	l, err := s.svc.SocialLinks.Create(c.Request.Context(), domain.SocialLink{Type: req.Type, URL: req.URL})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

// @Summary Update social link
// @Tags social-links
// @Accept json
// @Produce json
// @Param id path string true "Social link ID"
// @Param input body socialLinkPatchReq true "Fields to change"
// @Success 200 {object} domain.SocialLink
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /social-links/{id} [put]
func (s *Server) updateSocialLink(c *gin.Context) {
	var req socialLinkPatchReq
	if !bindJSON(c, &req) {
		return
	}
	l, err := s.svc.SocialLinks.Update(c.Request.Context(), c.Param("id"), service.SocialLinkPatch(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// @Summary Delete social link
// @Tags social-links
// @Param id path string true "Social link ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /social-links/{id} [delete]
func (s *Server) deleteSocialLink(c *gin.Context) {
	if err := s.svc.SocialLinks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
