package gateway

import (
	"net/http"

	"github.com/example/retailshop/pkg/apperr"
	"github.com/example/retailshop/pkg/catalog"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type addToCartRequest struct {
	Product string `json:"product" binding:"required"`
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (g *Gateway) fail(c *gin.Context, err error) {
	code := apperr.HTTPStatus(err)
	if code >= http.StatusInternalServerError {
		g.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(code, gin.H{"error": apperr.Message(err)})
}

func (g *Gateway) bind(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (g *Gateway) register(c *gin.Context) {
	var req credentialsRequest
	if !g.bind(c, &req) {
		return
	}
	ctx, cancel := g.requestContext(c)
	defer cancel()

	user, err := g.services.Accounts.Register(ctx, req.Username, req.Password, false)
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "username": user.Username})
}

func (g *Gateway) login(c *gin.Context) {
	var req credentialsRequest
	if !g.bind(c, &req) {
		return
	}
	ctx, cancel := g.requestContext(c)
	defer cancel()

	user, err := g.services.Accounts.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		g.fail(c, err)
		return
	}
	token, err := g.services.Tokens.Issue(user)
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"user_id":  user.ID,
		"username": user.Username,
		"admin":    user.IsAdmin,
	})
}

func (g *Gateway) profile(c *gin.Context) {
	ctx, cancel := g.requestContext(c)
	defer cancel()

	user, err := g.services.Accounts.User(ctx, claimsOf(c).UserID)
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"admin":      user.IsAdmin,
		"created_at": user.CreatedAt,
	})
}

func (g *Gateway) listCategories(c *gin.Context) {
	ctx, cancel := g.requestContext(c)
	defer cancel()

	categories, err := g.services.Catalog.ListCategories(ctx)
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories, "total": len(categories)})
}

func (g *Gateway) listProducts(c *gin.Context) {
	ctx, cancel := g.requestContext(c)
	defer cancel()

	products, err := g.services.Catalog.ProductsInCategory(ctx, c.Param("name"))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

func (g *Gateway) getProduct(c *gin.Context) {
	ctx, cancel := g.requestContext(c)
	defer cancel()

	product, err := g.services.Catalog.FindProduct(ctx, c.Param("name"))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (g *Gateway) viewCart(c *gin.Context) {
	ctx, cancel := g.requestContext(c)
	defer cancel()

	view, err := g.services.Shop.ViewCart(ctx, claimsOf(c).UserID)
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (g *Gateway) addToCart(c *gin.Context) {
	var req addToCartRequest
	if !g.bind(c, &req) {
		return
	}
	ctx, cancel := g.requestContext(c)
	defer cancel()

	added, err := g.services.Shop.AddToCart(ctx, claimsOf(c).UserID, req.Product)
	if err != nil {
		g.fail(c, err)
		return
	}
	code := http.StatusOK
	if added {
		code = http.StatusCreated
	}
	c.JSON(code, gin.H{"added": added})
}

func (g *Gateway) removeFromCart(c *gin.Context) {
	ctx, cancel := g.requestContext(c)
	defer cancel()

	if err := g.services.Shop.RemoveFromCart(ctx, claimsOf(c).UserID, c.Param("product")); err != nil {
		g.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (g *Gateway) summarize(c *gin.Context) {
	ctx, cancel := g.requestContext(c)
	defer cancel()

	summary, err := g.services.Shop.Summarize(ctx, claimsOf(c).UserID)
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

func (g *Gateway) getSummary(c *gin.Context) {
	ctx, cancel := g.requestContext(c)
	defer cancel()

	summary, err := g.services.Shop.Summary(ctx, claimsOf(c).UserID, c.Param("id"))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (g *Gateway) checkout(c *gin.Context) {
	ctx, cancel := g.requestContext(c)
	defer cancel()

	bill, err := g.services.Shop.Checkout(ctx, claimsOf(c).UserID, c.Param("id"))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, bill)
}

func (g *Gateway) addCategory(c *gin.Context) {
	var req categoryRequest
	if !g.bind(c, &req) {
		return
	}
	ctx, cancel := g.requestContext(c)
	defer cancel()

	category, err := g.services.Catalog.AddCategory(ctx, req.Name)
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (g *Gateway) addProduct(c *gin.Context) {
	var req catalog.ProductInput
	if !g.bind(c, &req) {
		return
	}
	ctx, cancel := g.requestContext(c)
	defer cancel()

	product, err := g.services.Catalog.AddProduct(ctx, req)
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (g *Gateway) cartsReport(c *gin.Context) {
	ctx, cancel := g.requestContext(c)
	defer cancel()

	carts, err := g.services.Reports.Carts(ctx)
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"carts": carts, "total": len(carts)})
}

func (g *Gateway) billsReport(c *gin.Context) {
	ctx, cancel := g.requestContext(c)
	defer cancel()

	bills, err := g.services.Reports.Bills(ctx)
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bills": bills, "total": len(bills)})
}

func (g *Gateway) orderAudit(c *gin.Context) {
	if g.services.Audit == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit log is not configured"})
		return
	}
	ctx, cancel := g.requestContext(c)
	defer cancel()

	entries, err := g.services.Audit.History(ctx, c.Param("id"), 50)
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": len(entries)})
}
