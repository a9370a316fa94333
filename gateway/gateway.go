package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/example/retailshop/gateway/docs"
	"github.com/example/retailshop/pkg/account"
	"github.com/example/retailshop/pkg/catalog"
	"github.com/example/retailshop/pkg/config"
	"github.com/example/retailshop/pkg/reporting"
	"github.com/example/retailshop/pkg/repository"
	"github.com/example/retailshop/pkg/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// AuditHistory reads the audit trail of an order.
type AuditHistory interface {
	History(ctx context.Context, entityID string, limit int64) ([]*repository.AuditEntry, error)
}

// Services are the backends the HTTP handlers call. Audit may be nil.
type Services struct {
	Accounts *account.Service
	Tokens   *account.Tokens
	Catalog  *catalog.Service
	Shop     session.Shop
	Reports  *reporting.Service
	Audit    AuditHistory
}

type Gateway struct {
	config   *config.Config
	services Services
	logger   *zap.Logger
	router   *gin.Engine
	server   *http.Server
}

func NewGateway(cfg *config.Config, logger *zap.Logger, services Services) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))
	router.Use(metricsMiddleware())
	router.Use(corsMiddleware(cfg.Gateway.AllowOrigins))

	return &Gateway{
		config:   cfg,
		services: services,
		logger:   logger.Named("gateway"),
		router:   router,
	}
}

func (g *Gateway) SetupRoutes() {
	// Health check
	g.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	g.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := g.router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", g.register)
			auth.POST("/login", g.login)
		}

		v1.GET("/categories", g.listCategories)
		v1.GET("/categories/:name/products", g.listProducts)
		v1.GET("/products/:name", g.getProduct)

		customer := v1.Group("", g.authenticate())
		{
			customer.GET("/me", g.profile)
			customer.GET("/cart", g.viewCart)
			customer.POST("/cart/items", g.addToCart)
			customer.DELETE("/cart/items/:product", g.removeFromCart)
			customer.POST("/orders", g.summarize)
			customer.GET("/orders/:id", g.getSummary)
			customer.POST("/orders/:id/checkout", g.checkout)
		}

		admin := v1.Group("/admin", g.authenticate(), requireAdmin())
		{
			admin.POST("/categories", g.addCategory)
			admin.POST("/products", g.addProduct)
			admin.GET("/carts", g.cartsReport)
			admin.GET("/bills", g.billsReport)
			admin.GET("/orders/:id/audit", g.orderAudit)
		}
	}

	// Swagger
	docs.SwaggerInfo.Host = g.config.Gateway.Addr()
	g.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (g *Gateway) Handler() http.Handler {
	return g.router
}

func (g *Gateway) Start() error {
	addr := g.config.Gateway.Addr()
	g.server = &http.Server{
		Addr:              addr,
		Handler:           g.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.logger.Info("Gateway starting", zap.String("address", addr))
	if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	if g.server == nil {
		return nil
	}
	return g.server.Shutdown(ctx)
}

func (g *Gateway) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if g.config.Gateway.Timeout > 0 {
		return context.WithTimeout(c.Request.Context(), g.config.Gateway.Timeout)
	}
	return context.WithCancel(c.Request.Context())
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		if len(origins) == 0 {
			cfg.AllowAllOrigins = true
		} else {
			cfg.AllowOrigins = origins
		}
	}
	return cors.New(cfg)
}
