package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Upload an image for a collection
// @Description Stores the file under <collection>/<unix ms>_<name> and returns its public URL.
// @Tags uploads
// @Accept mpfd
// @Produce json
// @Param collection path string true "Target folder: categories, products, brands, promo-images"
// @Param file formData file true "Image"
// @Success 201 {object} storage.Upload
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Router /uploads/{collection} [post]
func (s *Server) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	up, err := s.uploads.UploadImage(c.Request.Context(), c.Param("collection"), fh.Filename, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, up)
}
