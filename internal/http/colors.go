package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dashboard/internal/service"
)

type colorReq struct {
	Name       string   `json:"name" binding:"required,notblank"`
	ColorCode  string   `json:"colorCode"`
	CategoryID string   `json:"categoryId"`
	ProductIDs []string `json:"productIds"`
}

func (r colorReq) input() service.ColorInput {
	return service.ColorInput{Name: r.Name, ColorCode: r.ColorCode, CategoryID: r.CategoryID, ProductIDs: r.ProductIDs}
}

type syncReq struct {
	CategoryID string   `json:"categoryId"`
	ProductIDs []string `json:"productIds"`
}

// @Summary List colors
// @Tags colors
// @Produce json
// @Success 200 {array} domain.Color
// @Router /colors [get]
func (s *Server) listColors(c *gin.Context) {
	list, err := s.svc.Colors.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get color
// @Tags colors
// @Produce json
// @Param id path string true "Color ID"
// @Success 200 {object} domain.Color
// @Failure 404 {object} map[string]string
// @Router /colors/{id} [get]
func (s *Server) getColor(c *gin.Context) {
	col, err := s.svc.Colors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, col)
}

// @Summary Create color and assign it to the selected products
// @Tags colors
// @Accept json
// @Produce json
// @Param input body colorReq true "Color"
// @Success 201 {object} service.ColorSaved
// @Failure 400 {object} map[string]string
// @Router /colors [post]
func (s *Server) createColor(c *gin.Context) {
	var req colorReq
	if !bindJSON(c, &req) {
		return
	}
	saved, err := s.svc.Colors.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// @Summary Update color and re-sync products of its category
// @Tags colors
// @Accept json
// @Produce json
// @Param id path string true "Color ID"
// @Param input body colorReq true "Color"
// @Success 200 {object} service.ColorSaved
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /colors/{id} [put]
func (s *Server) updateColor(c *gin.Context) {
	var req colorReq
	if !bindJSON(c, &req) {
		return
	}
	saved, err := s.svc.Colors.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// @Summary Delete color
// @Tags colors
// @Produce json
// @Param id path string true "Color ID"
// @Success 200 {object} map[string]int
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /colors/{id} [delete]
func (s *Server) deleteColor(c *gin.Context) {
	n, err := s.svc.Colors.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": n})
}

// @Summary Products that reference the color
// @Tags colors
// @Produce json
// @Param id path string true "Color ID"
// @Success 200 {array} domain.Product
// @Router /colors/{id}/products [get]
func (s *Server) colorMembers(c *gin.Context) {
	list, err := s.svc.Colors.Members(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Sync product back-references for one category
// @Tags colors
// @Accept json
// @Produce json
// @Param id path string true "Color ID"
// @Param input body syncReq true "Category and selected products"
// @Success 200 {object} service.SyncResult
// @Failure 404 {object} map[string]string
// @Router /colors/{id}/products [put]
func (s *Server) syncColorProducts(c *gin.Context) {
	var req syncReq
	if !bindJSON(c, &req) {
		return
	}
	res, err := s.svc.Colors.SyncProducts(c.Request.Context(), c.Param("id"), req.CategoryID, req.ProductIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
