package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dashboard/internal/service"
)

type categoryReq struct {
	Name     string `json:"name" binding:"required,notblank"`
	ImageURL string `json:"imageUrl"`
}

// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {array} domain.Category
// @Router /categories [get]
func (s *Server) listCategories(c *gin.Context) {
	list, err := s.svc.Categories.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get category by key
// @Tags categories
// @Produce json
// @Param id path string true "Category key (its name)"
// @Success 200 {object} domain.Category
// @Failure 404 {object} map[string]string
// @Router /categories/{id} [get]
func (s *Server) getCategory(c *gin.Context) {
	cat, err := s.svc.Categories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// @Summary Add category
// @Description The trimmed name becomes the document key; an existing name is rejected.
// @Tags categories
// @Accept json
// @Produce json
// @Param input body categoryReq true "Category"
// @Success 201 {object} domain.Category
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /categories [post]
func (s *Server) createCategory(c *gin.Context) {
	var req categoryReq
	if !bindJSON(c, &req) {
		return
	}
	cat, err := s.svc.Categories.Add(c.Request.Context(), req.Name, req.ImageURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// @Summary Update or rename category
// @Description A changed name moves the document to the new key.
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Current category key"
// @Param input body categoryReq true "New name and optional image"
// @Success 200 {object} service.RenameOutcome
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /categories/{id} [put]
func (s *Server) updateCategory(c *gin.Context) {
	var req categoryReq
	if !bindJSON(c, &req) {
		return
	}
	out, err := s.svc.Categories.Update(c.Request.Context(), c.Param("id"), service.RenameInput{
		NewName:  req.Name,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Delete category
// @Tags categories
// @Produce json
// @Param id path string true "Category key"
// @Success 200 {object} map[string]int
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /categories/{id} [delete]
func (s *Server) deleteCategory(c *gin.Context) {
	n, err := s.svc.Categories.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cascaded": n})
}
