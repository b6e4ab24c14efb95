package fakeshop

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/theAriful7/storefront/pkg/model"
)

func (s *Server) routes() {
	api := s.engine.Group("/api")

	categories := api.Group("/categories")
	categories.GET("", s.listCategories)
	categories.GET("/:id", s.getCategory)
	categories.POST("", s.createCategory)
	categories.PUT("/:id", s.updateCategory)
	categories.DELETE("/:id", s.deleteCategory)

	subs := api.Group("/sub-categories")
	subs.GET("", s.listSubCategories)
	subs.GET("/search", s.searchSubCategories)
	subs.GET("/category/:id", s.listSubCategoriesByCategory)
	subs.GET("/:id", s.getSubCategory)
	subs.POST("", s.createSubCategory)
	subs.PUT("/:id", s.updateSubCategory)
	subs.DELETE("/:id", s.deleteSubCategory)

	products := api.Group("/products")
	products.GET("", s.listProducts)
	products.GET("/search", s.searchProducts)
	products.GET("/filter", s.filterProducts)
	products.GET("/home/:rail", s.homeRail)
	products.GET("/vendor/:vid", s.listVendorProducts)
	products.GET("/category/:id", s.listProductsByCategory)
	products.GET("/sub-category/:id", s.listProductsBySubCategory)
	products.GET("/status/:status", s.listProductsByStatus)
	products.GET("/:id", s.getProduct)
	products.POST("/vendor/:vid", s.createProduct)
	products.PUT("/:id/vendor/:vid", s.updateProduct)
	products.DELETE("/:id/vendor/:vid", s.deleteProduct)
	products.PATCH("/:id/status", s.changeProductStatus)
	products.GET("/:id/images", s.listImages)
	products.POST("/:id/images", s.uploadImages)
	products.DELETE("/:id/images/:imageId", s.deleteImage)
	products.PATCH("/:id/images/:imageId/primary", s.setPrimaryImage)

	carts := api.Group("/carts")
	carts.GET("", s.listCarts)
	carts.GET("/user/:userId", s.getCartByUser)
	carts.GET("/:id", s.getCart)
	carts.POST("", s.createCart)
	carts.DELETE("/:id", s.deleteCart)
	carts.POST("/items", s.addCartItem)
	carts.PATCH("/items/:itemId", s.updateCartItem)
	carts.DELETE("/items/:itemId", s.removeCartItem)
	carts.DELETE("/:id/items", s.clearCart)

	cartItems := api.Group("/cart_items")
	cartItems.GET("", s.listCartItems)
	cartItems.GET("/:id", s.getCartItem)
	cartItems.POST("", s.createCartItem)
	cartItems.PUT("/:id", s.updateCartItemFlat)
	cartItems.DELETE("/:id", s.deleteCartItemFlat)

	orders := api.Group("/orders")
	orders.GET("", s.listOrders)
	orders.GET("/:id", s.getOrder)
	orders.POST("", s.createOrder)
	orders.PUT("/:id", s.updateOrder)
	orders.DELETE("/:id", s.deleteOrder)

	orderItems := api.Group("/order-items")
	orderItems.GET("", s.listOrderItems)
	orderItems.GET("/:id", s.getOrderItem)
	orderItems.POST("", s.createOrderItem)
	orderItems.PUT("/:id", s.updateOrderItem)
	orderItems.DELETE("/:id", s.deleteOrderItem)

	payments := api.Group("/payments")
	payments.GET("", s.listPayments)
	payments.GET("/:id", s.getPayment)
	payments.POST("", s.createPayment)
	payments.DELETE("/:id", s.deletePayment)

	reviews := api.Group("/reviews")
	reviews.GET("", s.listReviews)
	reviews.GET("/product/:id", s.listProductReviews)
	reviews.GET("/user/:id", s.listUserReviews)
	reviews.POST("", s.createReview)
	reviews.DELETE("/:id", s.deleteReview)

	users := api.Group("/users")
	users.GET("", s.listUsers)
	users.GET("/:id", s.getUser)
	users.POST("", s.createUser)
	users.PUT("/:id", s.updateUser)
	users.DELETE("/:id", s.deleteUser)

	auth := api.Group("/auth")
	auth.POST("/login", s.login)
	auth.POST("/register", s.register)
}

// respond writes v, or maps err to a status with a {"message"} body.
func respond(c *gin.Context, status int, v interface{}, err error) {
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, errNotFound):
			code = http.StatusNotFound
		case errors.Is(err, errConflict):
			code = http.StatusConflict
		case errors.Is(err, errBadRequest):
			code = http.StatusBadRequest
		}
		c.JSON(code, gin.H{"message": err.Error()})
		return
	}
	if v == nil {
		c.Status(status)
		return
	}
	c.JSON(status, v)
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid " + name})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, def int) int {
	if v, err := strconv.Atoi(c.Query(name)); err == nil {
		return v
	}
	return def
}

func queryFloat(c *gin.Context, name string) float64 {
	v, _ := strconv.ParseFloat(c.Query(name), 64)
	return v
}

func bind(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// Categories

func (s *Server) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, s.Store.ListCategories())
}

func (s *Server) getCategory(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		cat, err := s.Store.GetCategory(id)
		respond(c, http.StatusOK, cat, err)
	}
}

func (s *Server) createCategory(c *gin.Context) {
	var in model.Category
	if bind(c, &in) {
		cat, err := s.Store.SaveCategory(0, in)
		respond(c, http.StatusCreated, cat, err)
	}
}

func (s *Server) updateCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	var in model.Category
	if ok && bind(c, &in) {
		cat, err := s.Store.SaveCategory(id, in)
		respond(c, http.StatusOK, cat, err)
	}
}

func (s *Server) deleteCategory(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		respond(c, http.StatusNoContent, nil, s.Store.DeleteCategory(id))
	}
}

// Sub-categories

func (s *Server) listSubCategories(c *gin.Context) {
	c.JSON(http.StatusOK, s.Store.ListSubCategories(0, ""))
}

func (s *Server) searchSubCategories(c *gin.Context) {
	c.JSON(http.StatusOK, s.Store.ListSubCategories(0, c.Query("keyword")))
}

func (s *Server) listSubCategoriesByCategory(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		c.JSON(http.StatusOK, s.Store.ListSubCategories(id, ""))
	}
}

func (s *Server) getSubCategory(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		sc, err := s.Store.GetSubCategory(id)
		respond(c, http.StatusOK, sc, err)
	}
}

func (s *Server) createSubCategory(c *gin.Context) {
	var in model.SubCategoryRequest
	if bind(c, &in) {
		sc, err := s.Store.SaveSubCategory(0, in)
		respond(c, http.StatusCreated, sc, err)
	}
}

func (s *Server) updateSubCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	var in model.SubCategoryRequest
	if ok && bind(c, &in) {
		sc, err := s.Store.SaveSubCategory(id, in)
		respond(c, http.StatusOK, sc, err)
	}
}

func (s *Server) deleteSubCategory(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		respond(c, http.StatusNoContent, nil, s.Store.DeleteSubCategory(id))
	}
}

// Products

func (s *Server) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, s.Store.ListProducts(ProductMatch{}, 0))
}

func (s *Server) searchProducts(c *gin.Context) {
	c.JSON(http.StatusOK, s.Store.ListProducts(ProductMatch{Keyword: c.Query("keyword")}, 0))
}

func (s *Server) filterProducts(c *gin.Context) {
	categoryID, _ := strconv.ParseInt(c.Query("categoryId"), 10, 64)
	subCategoryID, _ := strconv.ParseInt(c.Query("subCategoryId"), 10, 64)
	m := ProductMatch{
		CategoryID:    categoryID,
		SubCategoryID: subCategoryID,
		Status:        model.ProductStatus(c.Query("status")),
		MinPrice:      queryFloat(c, "minPrice"),
		MaxPrice:      queryFloat(c, "maxPrice"),
		Brand:         c.Query("brand"),
	}
	c.JSON(http.StatusOK, s.Store.ListProducts(m, queryInt(c, "limit", 0)))
}

func (s *Server) homeRail(c *gin.Context) {
	rail := c.Param("rail")
	switch rail {
	case "trending", "bestsellers", "featured":
		c.JSON(http.StatusOK, s.Store.HomeRail(rail, queryInt(c, "limit", 8)))
	case "all":
		c.JSON(http.StatusOK, model.HomeProducts{
			Trending:    s.Store.HomeRail("trending", queryInt(c, "trendingLimit", 8)),
			BestSellers: s.Store.HomeRail("bestsellers", queryInt(c, "bestsellersLimit", 8)),
			Featured:    s.Store.HomeRail("featured", queryInt(c, "featuredLimit", 8)),
		})
	default:
		c.JSON(http.StatusNotFound, gin.H{"message": "unknown rail " + rail})
	}
}

func (s *Server) listVendorProducts(c *gin.Context) {
	if vid, ok := paramID(c, "vid"); ok {
		c.JSON(http.StatusOK, s.Store.ListProducts(ProductMatch{VendorID: vid}, 0))
	}
}

func (s *Server) listProductsByCategory(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		c.JSON(http.StatusOK, s.Store.ListProducts(ProductMatch{CategoryID: id}, 0))
	}
}

func (s *Server) listProductsBySubCategory(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		c.JSON(http.StatusOK, s.Store.ListProducts(ProductMatch{SubCategoryID: id}, 0))
	}
}

func (s *Server) listProductsByStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.Store.ListProducts(ProductMatch{Status: model.ProductStatus(c.Param("status"))}, 0))
}

func (s *Server) getProduct(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		p, err := s.Store.GetProduct(id)
		respond(c, http.StatusOK, p, err)
	}
}

func (s *Server) createProduct(c *gin.Context) {
	vid, ok := paramID(c, "vid")
	var in model.ProductRequest
	if ok && bind(c, &in) {
		p, err := s.Store.SaveProduct(0, vid, in)
		respond(c, http.StatusCreated, p, err)
	}
}

func (s *Server) updateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	vid, ok := paramID(c, "vid")
	var in model.ProductRequest
	if ok && bind(c, &in) {
		p, err := s.Store.SaveProduct(id, vid, in)
		respond(c, http.StatusOK, p, err)
	}
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if vid, ok := paramID(c, "vid"); ok {
		respond(c, http.StatusNoContent, nil, s.Store.DeleteProduct(id, vid))
	}
}

func (s *Server) changeProductStatus(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		p, err := s.Store.SetProductStatus(id, model.ProductStatus(c.Query("status")))
		respond(c, http.StatusOK, p, err)
	}
}

func (s *Server) listImages(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		images, err := s.Store.ListImages(id)
		respond(c, http.StatusOK, images, err)
	}
}

// uploadImages reads the parallel multipart arrays the client sends.
func (s *Server) uploadImages(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid multipart form"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "no files"})
		return
	}

	altTexts := form.Value["altTexts"]
	sortOrders := form.Value["sortOrders"]
	primaries := form.Value["isPrimary"]

	records := make([]model.FileData, 0, len(files))
	for i, fh := range files {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "unreadable file " + fh.Filename})
			return
		}
		size, _ := io.Copy(io.Discard, f)
		f.Close()

		rec := model.FileData{
			FileName: fh.Filename,
			FileType: fh.Header.Get("Content-Type"),
			MimeType: fh.Header.Get("Content-Type"),
			FileSize: size,
		}
		if i < len(altTexts) {
			rec.AltText = altTexts[i]
		}
		if i < len(sortOrders) {
			rec.SortOrder, _ = strconv.Atoi(sortOrders[i])
		}
		if i < len(primaries) {
			rec.IsPrimary, _ = strconv.ParseBool(primaries[i])
		}
		records = append(records, rec)
	}

	out, err := s.Store.AddImages(id, records)
	respond(c, http.StatusOK, out, err)
}

func (s *Server) deleteImage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if imageID, ok := paramID(c, "imageId"); ok {
		respond(c, http.StatusNoContent, nil, s.Store.DeleteImage(id, imageID))
	}
}

func (s *Server) setPrimaryImage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if imageID, ok := paramID(c, "imageId"); ok {
		img, err := s.Store.SetPrimaryImage(id, imageID)
		respond(c, http.StatusOK, img, err)
	}
}

// Carts

func (s *Server) listCarts(c *gin.Context) {
	c.JSON(http.StatusOK, s.Store.ListCarts())
}

func (s *Server) getCart(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		cart, err := s.Store.GetCart(id)
		respond(c, http.StatusOK, cart, err)
	}
}

func (s *Server) getCartByUser(c *gin.Context) {
	if id, ok := paramID(c, "userId"); ok {
		cart, err := s.Store.GetCartByUser(id)
		respond(c, http.StatusOK, cart, err)
	}
}

func (s *Server) createCart(c *gin.Context) {
	var in model.CreateCartRequest
	if bind(c, &in) {
		cart, err := s.Store.CreateCart(in.UserID)
		respond(c, http.StatusCreated, cart, err)
	}
}

func (s *Server) deleteCart(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		respond(c, http.StatusNoContent, nil, s.Store.DeleteCart(id))
	}
}

func (s *Server) addCartItem(c *gin.Context) {
	var in model.AddCartItemRequest
	if bind(c, &in) {
		item, err := s.Store.AddCartItem(in)
		respond(c, http.StatusCreated, item, err)
	}
}

func (s *Server) updateCartItem(c *gin.Context) {
	id, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	qty, err := strconv.Atoi(c.Query("quantity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid quantity"})
		return
	}
	item, err := s.Store.UpdateCartItem(id, qty)
	respond(c, http.StatusOK, item, err)
}

func (s *Server) removeCartItem(c *gin.Context) {
	if id, ok := paramID(c, "itemId"); ok {
		respond(c, http.StatusNoContent, nil, s.Store.RemoveCartItem(id))
	}
}

func (s *Server) clearCart(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		respond(c, http.StatusNoContent, nil, s.Store.ClearCart(id))
	}
}

// Flat cart items

func (s *Server) listCartItems(c *gin.Context) {
	c.JSON(http.StatusOK, s.Store.ListCartItems())
}

func (s *Server) getCartItem(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		item, err := s.Store.GetCartItem(id)
		respond(c, http.StatusOK, item, err)
	}
}

func (s *Server) createCartItem(c *gin.Context) {
	var in model.CartItem
	if bind(c, &in) {
		item, err := s.Store.AddCartItem(model.AddCartItemRequest{CartID: in.CartID, ProductID: in.ProductID, Quantity: in.Quantity})
		respond(c, http.StatusCreated, item, err)
	}
}

func (s *Server) updateCartItemFlat(c *gin.Context) {
	id, ok := paramID(c, "id")
	var in model.CartItem
	if ok && bind(c, &in) {
		item, err := s.Store.UpdateCartItem(id, in.Quantity)
		respond(c, http.StatusOK, item, err)
	}
}

func (s *Server) deleteCartItemFlat(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		respond(c, http.StatusNoContent, nil, s.Store.RemoveCartItem(id))
	}
}

// Orders

func (s *Server) listOrders(c *gin.Context) {
	c.JSON(http.StatusOK, s.Store.ListOrders())
}

func (s *Server) getOrder(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		o, err := s.Store.GetOrder(id)
		respond(c, http.StatusOK, o, err)
	}
}

func (s *Server) createOrder(c *gin.Context) {
	var in model.Order
	if bind(c, &in) {
		o, err := s.Store.SaveOrder(0, in)
		respond(c, http.StatusCreated, o, err)
	}
}

func (s *Server) updateOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	var in model.Order
	if ok && bind(c, &in) {
		o, err := s.Store.SaveOrder(id, in)
		respond(c, http.StatusOK, o, err)
	}
}

func (s *Server) deleteOrder(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		respond(c, http.StatusNoContent, nil, s.Store.DeleteOrder(id))
	}
}

func (s *Server) listOrderItems(c *gin.Context) {
	c.JSON(http.StatusOK, s.Store.ListOrderItems())
}

func (s *Server) getOrderItem(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		item, err := s.Store.GetOrderItem(id)
		respond(c, http.StatusOK, item, err)
	}
}

func (s *Server) createOrderItem(c *gin.Context) {
	var in model.OrderItem
	if bind(c, &in) {
		item, err := s.Store.SaveOrderItem(0, in)
		respond(c, http.StatusCreated, item, err)
	}
}

func (s *Server) updateOrderItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	var in model.OrderItem
	if ok && bind(c, &in) {
		item, err := s.Store.SaveOrderItem(id, in)
		respond(c, http.StatusOK, item, err)
	}
}

func (s *Server) deleteOrderItem(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		respond(c, http.StatusNoContent, nil, s.Store.DeleteOrderItem(id))
	}
}

// Payments

func (s *Server) listPayments(c *gin.Context) {
	c.JSON(http.StatusOK, s.Store.ListPayments())
}

func (s *Server) getPayment(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		p, err := s.Store.GetPayment(id)
		respond(c, http.StatusOK, p, err)
	}
}

func (s *Server) createPayment(c *gin.Context) {
	var in model.Payment
	if bind(c, &in) {
		p, err := s.Store.CreatePayment(in)
		respond(c, http.StatusCreated, p, err)
	}
}

func (s *Server) deletePayment(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		respond(c, http.StatusNoContent, nil, s.Store.DeletePayment(id))
	}
}

// Reviews

func (s *Server) listReviews(c *gin.Context) {
	c.JSON(http.StatusOK, s.Store.ListReviews(0, 0))
}

func (s *Server) listProductReviews(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		c.JSON(http.StatusOK, s.Store.ListReviews(id, 0))
	}
}

func (s *Server) listUserReviews(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		c.JSON(http.StatusOK, s.Store.ListReviews(0, id))
	}
}

func (s *Server) createReview(c *gin.Context) {
	var in model.Review
	if bind(c, &in) {
		r, err := s.Store.CreateReview(in)
		respond(c, http.StatusCreated, r, err)
	}
}

// deleteReview answers in plain text like the real backend.
func (s *Server) deleteReview(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.Store.DeleteReview(id); err != nil {
		respond(c, 0, nil, err)
		return
	}
	c.String(http.StatusOK, "Review deleted successfully")
}

// Users

func (s *Server) listUsers(c *gin.Context) {
	c.JSON(http.StatusOK, s.Store.ListUsers())
}

func (s *Server) getUser(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		u, err := s.Store.GetUser(id)
		respond(c, http.StatusOK, u, err)
	}
}

func (s *Server) createUser(c *gin.Context) {
	var in model.UserRequest
	if bind(c, &in) {
		u, err := s.Store.SaveUser(0, in)
		respond(c, http.StatusCreated, u, err)
	}
}

func (s *Server) updateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	var in model.UserRequest
	if ok && bind(c, &in) {
		u, err := s.Store.SaveUser(id, in)
		respond(c, http.StatusOK, u, err)
	}
}

func (s *Server) deleteUser(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		respond(c, http.StatusNoContent, nil, s.Store.DeleteUser(id))
	}
}

func (s *Server) login(c *gin.Context) {
	var in model.LoginRequest
	if bind(c, &in) {
		u, err := s.Store.Authenticate(in.Email, in.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func (s *Server) register(c *gin.Context) {
	var in model.RegisterRequest
	if bind(c, &in) {
		u, err := s.Store.SaveUser(0, model.UserRequest{
			FullName: in.FullName,
			Email:    in.Email,
			Phone:    in.Phone,
			Password: in.Password,
			Role:     in.Role,
		})
		respond(c, http.StatusCreated, u, err)
	}
}
