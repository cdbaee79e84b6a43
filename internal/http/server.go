package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"vedashop/internal/auth"
	"vedashop/internal/repository"
	"vedashop/internal/service"
)

// Services зависимости HTTP-слоя
type Services struct {
	Products  *service.ProductService
	Inventory *service.InventoryService
	Tags      *service.TagService
	Orders    *service.OrderService
	Users     *service.UserService
	Alerts    *service.AlertService
	Logs      *service.LogService
	Media     *service.MediaService
	Guard     *service.Guard
}

type Server struct {
	engine *gin.Engine
	svc    Services
	log    *slog.Logger
}

func NewServer(svc Services, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	r := gin.New()
	s := &Server{engine: r, svc: svc, log: log}
	r.Use(s.requestLogger(), gin.Recovery(), s.authenticate())
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := s.engine.Group("/api/v1")
	{
		products := v1.Group("/products")
		products.GET("", s.listProducts)
		products.GET(":id", s.getProduct)
		products.POST("", s.require(auth.ManageProducts), s.createProduct)
		products.PUT(":id", s.require(auth.ManageProducts), s.updateProduct)
		products.DELETE(":id", requireConfirm(), s.require(auth.DeleteRecords), s.deleteProduct)

		inventory := v1.Group("/inventory", s.require(auth.ManageProducts))
		inventory.GET("", s.listInventory)
		inventory.POST(":id/adjust", s.adjustStock)
		inventory.PATCH(":id/reorder-point", s.updateReorderPoint)
		inventory.GET("alerts", s.checkAlerts)
		inventory.GET("alerts/config", s.getAlertConfig)
		inventory.PUT("alerts/config", s.putAlertConfig)

		tags := v1.Group("/tags")
		tags.GET("", s.require(auth.ManageProducts), s.listTags)
		tags.PUT(":name", s.require(auth.ManageSettings), s.renameTag)
		tags.DELETE(":name", requireConfirm(), s.require(auth.ManageSettings), s.deleteTag)

		orders := v1.Group("/orders")
		orders.POST("", s.createOrder)
		orders.GET("", s.listOrders)
		orders.GET(":id", s.getOrder)
		orders.PATCH(":id/status", s.require(auth.ManageOrders), s.updateOrderStatus)

		users := v1.Group("/users", s.require(auth.ManageUsers))
		users.GET("", s.listUsers)
		users.POST("", s.createUser)
		users.PATCH(":id", s.updateUser)
		users.DELETE(":id", s.deleteUser)
		v1.GET("/roles", s.require(auth.ManageUsers), s.listRoles)

		media := v1.Group("/media")
		media.GET("", s.require(auth.ManageMedia), s.listMedia)
		media.GET("mine", s.listMyMedia)
		media.PATCH(":id/metadata", s.require(auth.ManageMedia), s.updateMediaMetadata)
		media.PATCH(":id/status", s.require(auth.ManageMedia), s.updateMediaStatus)
		media.DELETE(":id", requireConfirm(), s.require(auth.ManageMedia), s.deleteMedia)

		logs := v1.Group("/logs", s.require(auth.ManageSettings))
		logs.GET("", s.listLogs)
		logs.GET("export", s.exportLogs)
		logs.DELETE("", s.clearLogs)
	}
}

// requestLogger одна строка slog на запрос
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		actor, _ := auth.ActorFrom(c.Request.Context())
		s.log.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"user", actor.UserID,
		)
	}
}

// authenticate кладёт актора из X-User-ID в контекст запроса.
// Без заголовка запрос идёт анонимно.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-User-ID")
		if id == "" {
			c.Next()
			return
		}
		u, err := s.svc.Users.Resolve(c.Request.Context(), id)
		if err != nil {
			abortWithError(c, err)
			return
		}
		ctx := auth.WithActor(c.Request.Context(), auth.Actor{
			UserID: u.ID,
			Role:   u.Role,
			Device: c.Request.UserAgent(),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// require проверка права до обращения к сервису; отказ попадает в журнал
func (s *Server) require(perm auth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := s.svc.Guard.Require(c.Request.Context(), perm, c.Request.Method+" "+c.FullPath()); err != nil {
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// requireConfirm разрушительные действия только с ?confirm=true
func requireConfirm() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("confirm") != "true" {
			c.AbortWithStatusJSON(http.StatusPreconditionRequired, gin.H{"error": "confirmation required: repeat with ?confirm=true"})
			return
		}
		c.Next()
	}
}

func abortWithError(c *gin.Context, err error) {
	status := mapErrorToStatus(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func mapErrorToStatus(err error) int {
	var (
		verr *service.ValidationError
		perr *auth.PermissionError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.As(err, &perr):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotEnoughStock),
		errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrDuplicateSKU),
		errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, repository.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
