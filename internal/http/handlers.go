package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"dashboard/internal/auth"
	"dashboard/internal/domain"
	"dashboard/internal/lock"
	"dashboard/internal/logger"
	"dashboard/internal/repository"
	"dashboard/internal/service"
	"dashboard/internal/storage"
)

// Services сервисы, которые обслуживает API
type Services struct {
	Categories  *service.CategoryService
	Products    *service.ProductService
	Brands      *service.BrandService
	Colors      *service.ColorService
	Orders      *service.OrderService
	PromoImages *service.PromoImageService
	SocialLinks *service.SocialLinkService
	Stats       *service.StatsService
}

// Config настройки HTTP-слоя
type Config struct {
	CORSOrigins []string
	// UploadDir каталог локального хранилища файлов; пусто, если файлы лежат не на диске
	UploadDir string
}

type Server struct {
	engine  *gin.Engine
	svc     Services
	auth    auth.Provider
	uploads *storage.Uploader
}

func NewServer(svc Services, authn auth.Provider, uploads *storage.Uploader, cfg Config) *Server {
	registerValidators()
	r := gin.New()
	r.Use(logger.GinMiddleware(), gin.Recovery(), cors.New(corsConfig(cfg.CORSOrigins)))
	s := &Server{engine: r, svc: svc, auth: authn, uploads: uploads}
	s.registerRoutes(cfg)
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", logger.RequestIDHeader},
		ExposeHeaders: []string{logger.RequestIDHeader},
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	}
	return cfg
}

func (s *Server) registerRoutes(cfg Config) {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if cfg.UploadDir != "" {
		s.engine.Static(storage.URLPrefix, cfg.UploadDir)
	}
	registerStub(s.engine.Group("/api"))

	s.engine.POST("/api/v1/auth/login", s.login)

	v1 := s.engine.Group("/api/v1")
	v1.Use(s.requireAuth())
	{
		v1.GET("/stats", s.stats)

		categories := v1.Group("/categories")
		categories.GET("", s.listCategories)
		categories.POST("", s.createCategory)
		categories.GET(":id", s.getCategory)
		categories.PUT(":id", s.updateCategory)
		categories.DELETE(":id", s.deleteCategory)

		products := v1.Group("/products")
		products.POST("", s.createProduct)
		products.GET(":id", s.getProduct)
		products.PUT(":id", s.updateProduct)
		products.DELETE(":id", s.deleteProduct)
		products.GET("", s.listProducts)

		brands := v1.Group("/brands")
		brands.GET("", s.listBrands)
		brands.POST("", s.createBrand)
		brands.GET(":id", s.getBrand)
		brands.PUT(":id", s.updateBrand)
		brands.DELETE(":id", s.deleteBrand)

		colors := v1.Group("/colors")
		colors.GET("", s.listColors)
		colors.POST("", s.createColor)
		colors.GET(":id", s.getColor)
		colors.PUT(":id", s.updateColor)
		colors.DELETE(":id", s.deleteColor)
		colors.GET(":id/products", s.colorMembers)
		colors.PUT(":id/products", s.syncColorProducts)

		orders := v1.Group("/orders")
		orders.GET("", s.listOrders)
		orders.GET(":id", s.getOrder)
		orders.POST(":id/toggle-status", s.toggleOrderStatus)
		orders.PUT(":id/status", s.setOrderStatus)

		promos := v1.Group("/promo-images")
		promos.GET("", s.listPromoImages)
		promos.POST("", s.createPromoImage)
		promos.GET(":id", s.getPromoImage)
		promos.PUT(":id", s.updatePromoImage)
		promos.DELETE(":id", s.deletePromoImage)

		links := v1.Group("/social-links")
		links.GET("", s.listSocialLinks)
		links.POST("", s.createSocialLink)
		links.GET(":id", s.getSocialLink)
		links.PUT(":id", s.updateSocialLink)
		links.DELETE(":id", s.deleteSocialLink)

		v1.POST("/uploads/:collection", s.upload)
	}
}

// Product handlers
type productReq struct {
	Name        string        `json:"name" binding:"required,notblank"`
	Price       float64       `json:"price" binding:"gte=0"`
	Discount    float64       `json:"discount" binding:"gte=0,lte=100"`
	Sizes       []domain.Size `json:"sizes"`
	CategoryID  string        `json:"categoryId"`
	BrandID     string        `json:"brandId"`
	Quantity    int64         `json:"quantity" binding:"gte=0"`
	IsAvailable bool          `json:"isAvailable"`
	ImageURL    string        `json:"imageURL"`
}

func (r productReq) product() domain.Product {
	return domain.Product{
		Name:        r.Name,
		Price:       r.Price,
		Discount:    r.Discount,
		Sizes:       r.Sizes,
		CategoryID:  r.CategoryID,
		BrandID:     r.BrandID,
		Quantity:    r.Quantity,
		IsAvailable: r.IsAvailable,
		ImageURL:    r.ImageURL,
	}
}

// productPatchReq изменение товара: отсутствующие поля не меняются
type productPatchReq struct {
	Name        *string       `json:"name" binding:"omitempty,notblank"`
	Price       *float64      `json:"price" binding:"omitempty,gte=0"`
	Discount    *float64      `json:"discount" binding:"omitempty,gte=0,lte=100"`
	Sizes       []domain.Size `json:"sizes"`
	CategoryID  *string       `json:"categoryId"`
	BrandID     *string       `json:"brandId"`
	Quantity    *int64        `json:"quantity" binding:"omitempty,gte=0"`
	IsAvailable *bool         `json:"isAvailable"`
	ImageURL    *string       `json:"imageURL"`
}

func (r productPatchReq) patch() service.ProductPatch {
	return service.ProductPatch(r)
}

// productView товар с вычисленной ценой после скидки
type productView struct {
	domain.Product
	FinalPrice float64 `json:"finalPrice"`
}

func viewProduct(p domain.Product) productView {
	return productView{Product: p, FinalPrice: p.FinalPrice()}
}

// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param input body productReq true "Product"
// @Success 201 {object} productView
// @Failure 400 {object} map[string]string
// @Router /products [post]
func (s *Server) createProduct(c *gin.Context) {
	var req productReq
	if !bindJSON(c, &req) {
		return
	}
	p, err := s.svc.Products.Create(c.Request.Context(), req.product())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewProduct(*p))
}

// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} productView
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	p, err := s.svc.Products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewProduct(*p))
}

// @Summary Update product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param input body productPatchReq true "Fields to change"
// @Success 200 {object} productView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [put]
func (s *Server) updateProduct(c *gin.Context) {
	var req productPatchReq
	if !bindJSON(c, &req) {
		return
	}
	p, err := s.svc.Products.Update(c.Request.Context(), c.Param("id"), req.patch())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewProduct(*p))
}

// @Summary Delete product
// @Tags products
// @Param id path string true "Product ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /products/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.svc.Products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List products
// @Tags products
// @Produce json
// @Param q query string false "Name or id contains"
// @Param category query string false "Category key"
// @Param color query string false "Color id"
// @Param min_price query number false "Min price"
// @Param max_price query number false "Max price"
// @Success 200 {array} productView
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	f := repository.ProductFilter{
		NameSubstring: c.Query("q"),
		CategoryID:    c.Query("category"),
		Color:         c.Query("color"),
	}
	if v := c.Query("min_price"); v != "" {
		if x, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &x
		}
	}
	if v := c.Query("max_price"); v != "" {
		if x, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &x
		}
	}
	list, err := s.svc.Products.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]productView, 0, len(list))
	for _, p := range list {
		out = append(out, viewProduct(p))
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Dashboard summary
// @Description Order count, revenue over all orders, product and category counts.
// @Tags stats
// @Produce json
// @Success 200 {object} service.Stats
// @Router /stats [get]
func (s *Server) stats(c *gin.Context) {
	st, err := s.svc.Stats.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Order handlers

// @Summary List orders
// @Tags orders
// @Produce json
// @Param q query string false "Name, order id or phone number contains"
// @Param status query string false "Exact status"
// @Success 200 {array} domain.Order
// @Router /orders [get]
func (s *Server) listOrders(c *gin.Context) {
	f := service.OrderFilter{
		Search: strings.TrimSpace(c.Query("q")),
		Status: domain.OrderStatus(c.Query("status")),
	}
	list, err := s.svc.Orders.ListOrders(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get order by id
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	o, err := s.svc.Orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// @Summary Toggle order status between completed and in progress
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} map[string]string
// @Router /orders/{id}/toggle-status [post]
func (s *Server) toggleOrderStatus(c *gin.Context) {
	o, err := s.svc.Orders.ToggleStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type setStatusReq struct {
	Status string `json:"status" binding:"required,notblank"`
}

// @Summary Set order status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body setStatusReq true "Status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id}/status [put]
func (s *Server) setOrderStatus(c *gin.Context) {
	var req setStatusReq
	if !bindJSON(c, &req) {
		return
	}
	o, err := s.svc.Orders.SetStatus(c.Request.Context(), c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func respondError(c *gin.Context, err error) {
	status := mapErrorToStatus(err)
	if status >= http.StatusInternalServerError {
		logger.WithContext(c.Request.Context()).WithError(err).Error("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func mapErrorToStatus(err error) int {
	switch {
	// partial writes wrap the cause; report them as server failures
	case errors.Is(err, service.ErrPartialWrite):
		return http.StatusInternalServerError
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, storage.ErrNotImage),
		errors.Is(err, storage.ErrBadFolder):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrAlreadyExists),
		errors.Is(err, service.ErrHasDependents),
		errors.Is(err, lock.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, storage.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, auth.ErrSignInUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
