package fakeshop

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/theAriful7/storefront/pkg/model"
)

// Store errors, mapped to HTTP statuses by the handlers.
var (
	errNotFound   = errors.New("not found")
	errConflict   = errors.New("conflict")
	errBadRequest = errors.New("bad request")
)

// Store holds the in-memory backend state.
type Store struct {
	mu sync.RWMutex

	nextID        int64
	now           func() time.Time
	categories    map[int64]model.Category
	subCategories map[int64]model.SubCategory
	products      map[int64]model.Product
	carts         map[int64]model.Cart
	orders        map[int64]model.Order
	orderItems    map[int64]model.OrderItem
	payments      map[int64]model.Payment
	reviews       map[int64]model.Review
	users         map[int64]model.User
	passwords     map[int64][]byte
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		nextID:        100,
		now:           time.Now,
		categories:    make(map[int64]model.Category),
		subCategories: make(map[int64]model.SubCategory),
		products:      make(map[int64]model.Product),
		carts:         make(map[int64]model.Cart),
		orders:        make(map[int64]model.Order),
		orderItems:    make(map[int64]model.OrderItem),
		payments:      make(map[int64]model.Payment),
		reviews:       make(map[int64]model.Review),
		users:         make(map[int64]model.User),
		passwords:     make(map[int64][]byte),
	}
}

// id hands out the next identifier. Callers hold the write lock.
func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) stamp() *model.Timestamp {
	return model.NewTimestamp(s.now())
}

// Seed loads a small deterministic catalogue: two categories, three
// sub-categories, six products from vendor 1, user 1 (customer) and user 2
// (vendor), and two orders.
func (s *Store) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories[1] = model.Category{ID: 1, Name: "Electronics", Description: "Phones, laptops and gadgets"}
	s.categories[2] = model.Category{ID: 2, Name: "Fashion", Description: "Clothing and shoes"}

	s.subCategories[1] = model.SubCategory{ID: 1, Name: "Phones", CategoryID: 1, CategoryName: "Electronics", CreatedAt: s.stamp()}
	s.subCategories[2] = model.SubCategory{ID: 2, Name: "Laptops", CategoryID: 1, CategoryName: "Electronics", CreatedAt: s.stamp()}
	s.subCategories[3] = model.SubCategory{ID: 3, Name: "Shoes", CategoryID: 2, CategoryName: "Fashion", CreatedAt: s.stamp()}

	seed := []model.Product{
		{ID: 1, Name: "Pixel Phone", Description: "A fast phone", Price: 499, Stock: 25, SKU: "PX-1", Brand: "Gadgetco", CategoryID: 1, SubCategoryID: 1, Status: model.StatusActive, Discount: 10},
		{ID: 2, Name: "Budget Phone", Description: "A cheap phone", Price: 99, Stock: 5, SKU: "BP-1", Brand: "Valuetel", CategoryID: 1, SubCategoryID: 1, Status: model.StatusActive},
		{ID: 3, Name: "Ultrabook", Description: "A thin laptop", Price: 1299, Stock: 0, SKU: "UB-1", Brand: "Gadgetco", CategoryID: 1, SubCategoryID: 2, Status: model.StatusPending},
		{ID: 4, Name: "Running Shoe", Description: "Light trainers", Price: 80, Stock: 40, SKU: "RS-1", Brand: "Stride", CategoryID: 2, SubCategoryID: 3, Status: model.StatusActive,
			Specifications: []model.ProductSpecification{{Key: model.SpecColor, Value: "Red"}, {Key: model.SpecSize, Value: "M"}, {Key: "Material", Value: "Mesh"}}},
		{ID: 5, Name: "Leather Boot", Description: "Winter boots", Price: 150, Stock: 8, SKU: "LB-1", Brand: "Stride", CategoryID: 2, SubCategoryID: 3, Status: model.StatusApproved},
		{ID: 6, Name: "Sandal", Description: "Summer sandals", Price: 25, Stock: 60, SKU: "SD-1", Brand: "Beachy", CategoryID: 2, SubCategoryID: 3, Status: model.StatusRejected},
	}
	for _, p := range seed {
		p.VendorID = 1
		p.VendorName = "Demo Vendor"
		p.CreatedAt = s.stamp()
		p.UpdatedAt = p.CreatedAt
		s.products[p.ID] = s.denormalize(p)
	}

	s.users[1] = model.User{ID: 1, FullName: "Demo Customer", Email: "customer@example.com", Role: model.RoleCustomer, IsActive: true}
	s.users[2] = model.User{ID: 2, FullName: "Demo Vendor", Email: "vendor@example.com", Role: model.RoleVendor, IsActive: true}

	s.orders[1] = model.Order{ID: 1, OrderNumber: "ORD-1", UserID: 1, CustomerName: "Demo Customer", TotalAmount: 579, Status: model.OrderPending, OrderDate: s.stamp(), ShippingAddress: "1 Main St",
		Items: []model.OrderItem{{ID: 1, OrderID: 1, ProductID: 1, ProductName: "Pixel Phone", Quantity: 1, Price: 499, Subtotal: 499}, {ID: 2, OrderID: 1, ProductID: 4, ProductName: "Running Shoe", Quantity: 1, Price: 80, Subtotal: 80}}}
	s.orders[2] = model.Order{ID: 2, OrderNumber: "ORD-2", UserID: 1, TotalAmount: 99, Status: model.OrderDelivered, OrderDate: s.stamp(), ShippingAddress: "1 Main St",
		Items: []model.OrderItem{{ID: 3, OrderID: 2, ProductID: 2, ProductName: "Budget Phone", Quantity: 1, Price: 99, Subtotal: 99}}}
	for _, o := range s.orders {
		for _, item := range o.Items {
			s.orderItems[item.ID] = item
		}
	}
}

// denormalize fills the display names a real backend joins in.
func (s *Store) denormalize(p model.Product) model.Product {
	if c, ok := s.categories[p.CategoryID]; ok {
		p.CategoryName = c.Name
	}
	if sc, ok := s.subCategories[p.SubCategoryID]; ok {
		p.SubCategoryName = sc.Name
	}
	if p.Specifications == nil {
		p.Specifications = []model.ProductSpecification{}
	}
	return p
}

func sortedValues[T any](m map[int64]T) []T {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

// Categories

func (s *Store) ListCategories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.categories)
}

func (s *Store) GetCategory(id int64) (model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return model.Category{}, fmt.Errorf("category %d: %w", id, errNotFound)
	}
	return c, nil
}

func (s *Store) SaveCategory(id int64, c model.Category) (model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(c.Name) == "" {
		return model.Category{}, fmt.Errorf("category name is required: %w", errBadRequest)
	}
	if id == 0 {
		id = s.id()
	} else if _, ok := s.categories[id]; !ok {
		return model.Category{}, fmt.Errorf("category %d: %w", id, errNotFound)
	}
	c.ID = id
	s.categories[id] = c
	return c, nil
}

// DeleteCategory refuses to orphan sub-categories.
func (s *Store) DeleteCategory(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return fmt.Errorf("category %d: %w", id, errNotFound)
	}
	for _, sc := range s.subCategories {
		if sc.CategoryID == id {
			return fmt.Errorf("category %d still has sub-categories: %w", id, errConflict)
		}
	}
	delete(s.categories, id)
	return nil
}

// Sub-categories

func (s *Store) ListSubCategories(categoryID int64, keyword string) []model.SubCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keyword = strings.ToLower(keyword)
	out := []model.SubCategory{}
	for _, sc := range sortedValues(s.subCategories) {
		if categoryID != 0 && sc.CategoryID != categoryID {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(sc.Name), keyword) {
			continue
		}
		out = append(out, sc)
	}
	return out
}

func (s *Store) GetSubCategory(id int64) (model.SubCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.subCategories[id]
	if !ok {
		return model.SubCategory{}, fmt.Errorf("sub-category %d: %w", id, errNotFound)
	}
	return sc, nil
}

func (s *Store) SaveSubCategory(id int64, req model.SubCategoryRequest) (model.SubCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	parent, ok := s.categories[req.CategoryID]
	if !ok {
		return model.SubCategory{}, fmt.Errorf("category %d: %w", req.CategoryID, errBadRequest)
	}
	sc := model.SubCategory{Name: req.Name, Description: req.Description, CategoryID: req.CategoryID, CategoryName: parent.Name}
	if id == 0 {
		sc.ID = s.id()
		sc.CreatedAt = s.stamp()
	} else {
		prev, ok := s.subCategories[id]
		if !ok {
			return model.SubCategory{}, fmt.Errorf("sub-category %d: %w", id, errNotFound)
		}
		sc.ID = id
		sc.CreatedAt = prev.CreatedAt
	}
	sc.UpdatedAt = s.stamp()
	s.subCategories[sc.ID] = sc
	return sc, nil
}

func (s *Store) DeleteSubCategory(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subCategories[id]; !ok {
		return fmt.Errorf("sub-category %d: %w", id, errNotFound)
	}
	delete(s.subCategories, id)
	return nil
}

// Products

// ProductMatch selects products for the list endpoints.
type ProductMatch struct {
	VendorID      int64
	CategoryID    int64
	SubCategoryID int64
	Status        model.ProductStatus
	Keyword       string
	MinPrice      float64
	MaxPrice      float64
	Brand         string
}

func (m ProductMatch) matches(p model.Product) bool {
	switch {
	case m.VendorID != 0 && p.VendorID != m.VendorID:
		return false
	case m.CategoryID != 0 && p.CategoryID != m.CategoryID:
		return false
	case m.SubCategoryID != 0 && p.SubCategoryID != m.SubCategoryID:
		return false
	case m.Status != "" && p.Status != m.Status:
		return false
	case m.MinPrice != 0 && p.Price < m.MinPrice:
		return false
	case m.MaxPrice != 0 && p.Price > m.MaxPrice:
		return false
	case m.Brand != "" && !strings.EqualFold(p.Brand, m.Brand):
		return false
	}
	if m.Keyword != "" {
		kw := strings.ToLower(m.Keyword)
		return strings.Contains(strings.ToLower(p.Name), kw) ||
			strings.Contains(strings.ToLower(p.Description), kw) ||
			strings.Contains(strings.ToLower(p.Brand), kw)
	}
	return true
}

func (s *Store) ListProducts(m ProductMatch, limit int) []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Product{}
	for _, p := range sortedValues(s.products) {
		if !m.matches(p) {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// HomeRail returns a home page rail. Trending favours discounts, best sellers
// favour stock turnover (lowest stock first), featured is newest first.
func (s *Store) HomeRail(rail string, limit int) []model.Product {
	products := s.ListProducts(ProductMatch{Status: model.StatusActive}, 0)
	switch rail {
	case "trending":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Discount > products[j].Discount })
	case "bestsellers":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Stock < products[j].Stock })
	case "featured":
		sort.SliceStable(products, func(i, j int) bool { return products[i].ID > products[j].ID })
	}
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	return products
}

func (s *Store) GetProduct(id int64) (model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return model.Product{}, fmt.Errorf("product %d: %w", id, errNotFound)
	}
	return p, nil
}

// SaveProduct creates (id 0) or replaces a vendor's product.
func (s *Store) SaveProduct(id, vendorID int64, req model.ProductRequest) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[req.CategoryID]; !ok {
		return model.Product{}, fmt.Errorf("category %d: %w", req.CategoryID, errBadRequest)
	}

	p := model.Product{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Stock:          req.Stock,
		SKU:            req.SKU,
		Discount:       req.Discount,
		Brand:          req.Brand,
		ImageURLs:      req.ImageURLs,
		CategoryID:     req.CategoryID,
		SubCategoryID:  req.SubCategoryID,
		Status:         req.Status,
		VendorID:       vendorID,
		Specifications: req.Specifications,
	}
	if u, ok := s.users[vendorID]; ok {
		p.VendorName = u.FullName
	}

	if id == 0 {
		for _, other := range s.products {
			if p.SKU != "" && other.SKU == p.SKU {
				return model.Product{}, fmt.Errorf("sku %s already exists: %w", p.SKU, errConflict)
			}
		}
		p.ID = s.id()
		p.CreatedAt = s.stamp()
		if p.Status == "" {
			p.Status = model.StatusPending
		}
	} else {
		prev, ok := s.products[id]
		if !ok || prev.VendorID != vendorID {
			return model.Product{}, fmt.Errorf("product %d of vendor %d: %w", id, vendorID, errNotFound)
		}
		p.ID = id
		p.CreatedAt = prev.CreatedAt
		p.Images = prev.Images
		if p.Status == "" {
			p.Status = prev.Status
		}
	}
	if !p.Status.Valid() {
		return model.Product{}, fmt.Errorf("status %q: %w", p.Status, errBadRequest)
	}
	p.UpdatedAt = s.stamp()
	p = s.denormalize(p)
	s.products[p.ID] = p
	return p, nil
}

func (s *Store) DeleteProduct(id, vendorID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || p.VendorID != vendorID {
		return fmt.Errorf("product %d of vendor %d: %w", id, vendorID, errNotFound)
	}
	delete(s.products, id)
	return nil
}

func (s *Store) SetProductStatus(id int64, status model.ProductStatus) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !status.Valid() {
		return model.Product{}, fmt.Errorf("status %q: %w", status, errBadRequest)
	}
	p, ok := s.products[id]
	if !ok {
		return model.Product{}, fmt.Errorf("product %d: %w", id, errNotFound)
	}
	p.Status = status
	p.UpdatedAt = s.stamp()
	s.products[id] = p
	return p, nil
}

// Images

func (s *Store) AddImages(productID int64, files []model.FileData) ([]model.FileData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", productID, errNotFound)
	}
	p.Images = append([]model.FileData(nil), p.Images...)
	out := make([]model.FileData, 0, len(files))
	for _, f := range files {
		f.ID = s.id()
		f.FilePath = fmt.Sprintf("/uploads/products/%d/%d-%s", productID, f.ID, f.FileName)
		if f.IsPrimary {
			for i := range p.Images {
				p.Images[i].IsPrimary = false
			}
		}
		p.Images = append(p.Images, f)
		out = append(out, f)
	}
	s.products[productID] = p
	return out, nil
}

func (s *Store) ListImages(productID int64) ([]model.FileData, error) {
	p, err := s.GetProduct(productID)
	if err != nil {
		return nil, err
	}
	out := make([]model.FileData, len(p.Images))
	copy(out, p.Images)
	return out, nil
}

func (s *Store) DeleteImage(productID, imageID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return fmt.Errorf("product %d: %w", productID, errNotFound)
	}
	for i, img := range p.Images {
		if img.ID == imageID {
			p.Images = append(p.Images[:i:i], p.Images[i+1:]...)
			s.products[productID] = p
			return nil
		}
	}
	return fmt.Errorf("image %d: %w", imageID, errNotFound)
}

func (s *Store) SetPrimaryImage(productID, imageID int64) (model.FileData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return model.FileData{}, fmt.Errorf("product %d: %w", productID, errNotFound)
	}
	var found *model.FileData
	images := make([]model.FileData, len(p.Images))
	for i, img := range p.Images {
		img.IsPrimary = img.ID == imageID
		images[i] = img
		if img.IsPrimary {
			found = &images[i]
		}
	}
	if found == nil {
		return model.FileData{}, fmt.Errorf("image %d: %w", imageID, errNotFound)
	}
	p.Images = images
	s.products[productID] = p
	return *found, nil
}

// Carts

// totals recomputes the server-side aggregates of a cart.
func (s *Store) totals(c model.Cart) model.Cart {
	items := 0
	price := decimal.Zero
	for i, item := range c.Items {
		line := decimal.NewFromFloat(item.PricePerItem).Mul(decimal.NewFromInt(int64(item.Quantity)))
		c.Items[i].TotalPrice = line.InexactFloat64()
		items += item.Quantity
		price = price.Add(line)
	}
	c.TotalItems = items
	c.TotalPrice = price.InexactFloat64()
	return c
}

func (s *Store) ListCarts() []model.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.carts)
}

func (s *Store) GetCart(id int64) (model.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.carts[id]
	if !ok {
		return model.Cart{}, fmt.Errorf("cart %d: %w", id, errNotFound)
	}
	return *c.Clone(), nil
}

func (s *Store) GetCartByUser(userID int64) (model.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.carts {
		if c.UserID == userID {
			return *c.Clone(), nil
		}
	}
	return model.Cart{}, fmt.Errorf("cart of user %d: %w", userID, errNotFound)
}

func (s *Store) CreateCart(userID int64) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.carts {
		if c.UserID == userID {
			return model.Cart{}, fmt.Errorf("user %d already has a cart: %w", userID, errConflict)
		}
	}
	c := model.Cart{ID: s.id(), UserID: userID, Items: []model.CartItem{}}
	if u, ok := s.users[userID]; ok {
		c.UserName = u.FullName
	}
	s.carts[c.ID] = c
	return c, nil
}

func (s *Store) DeleteCart(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[id]; !ok {
		return fmt.Errorf("cart %d: %w", id, errNotFound)
	}
	delete(s.carts, id)
	return nil
}

// AddCartItem merges into an existing line for the same product.
func (s *Store) AddCartItem(req model.AddCartItemRequest) (model.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Quantity < 1 {
		return model.CartItem{}, fmt.Errorf("quantity must be positive: %w", errBadRequest)
	}
	c, ok := s.carts[req.CartID]
	if !ok {
		return model.CartItem{}, fmt.Errorf("cart %d: %w", req.CartID, errNotFound)
	}
	p, ok := s.products[req.ProductID]
	if !ok {
		return model.CartItem{}, fmt.Errorf("product %d: %w", req.ProductID, errNotFound)
	}

	c = *c.Clone()
	idx := -1
	for i, item := range c.Items {
		if item.ProductID == req.ProductID {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.Items = append(c.Items, model.CartItem{
			ID:           s.id(),
			CartID:       c.ID,
			ProductID:    p.ID,
			ProductName:  p.Name,
			PricePerItem: p.Price,
		})
		idx = len(c.Items) - 1
		if len(p.Images) > 0 {
			c.Items[idx].ProductImage = p.Images[0].FilePath
		}
	}
	c.Items[idx].Quantity += req.Quantity
	c = s.totals(c)
	s.carts[c.ID] = c
	return c.Items[idx], nil
}

// cartOfItem finds the cart holding itemID. Callers hold the lock.
func (s *Store) cartOfItem(itemID int64) (model.Cart, int, error) {
	for _, c := range s.carts {
		for i, item := range c.Items {
			if item.ID == itemID {
				return *c.Clone(), i, nil
			}
		}
	}
	return model.Cart{}, -1, fmt.Errorf("cart item %d: %w", itemID, errNotFound)
}

// UpdateCartItem rejects non-positive quantities like the real backend.
func (s *Store) UpdateCartItem(itemID int64, quantity int) (model.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quantity < 1 {
		return model.CartItem{}, fmt.Errorf("quantity must be positive: %w", errBadRequest)
	}
	c, idx, err := s.cartOfItem(itemID)
	if err != nil {
		return model.CartItem{}, err
	}
	c.Items[idx].Quantity = quantity
	c = s.totals(c)
	s.carts[c.ID] = c
	return c.Items[idx], nil
}

func (s *Store) RemoveCartItem(itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, idx, err := s.cartOfItem(itemID)
	if err != nil {
		return err
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	s.carts[c.ID] = s.totals(c)
	return nil
}

func (s *Store) ClearCart(cartID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[cartID]
	if !ok {
		return fmt.Errorf("cart %d: %w", cartID, errNotFound)
	}
	c.Items = []model.CartItem{}
	s.carts[cartID] = s.totals(c)
	return nil
}

// ListCartItems flattens every cart's lines.
func (s *Store) ListCartItems() []model.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.CartItem{}
	for _, c := range sortedValues(s.carts) {
		out = append(out, c.Items...)
	}
	return out
}

func (s *Store) GetCartItem(itemID int64) (model.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, idx, err := s.cartOfItem(itemID)
	if err != nil {
		return model.CartItem{}, err
	}
	return c.Items[idx], nil
}

// Orders

func (s *Store) ListOrders() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.orders)
}

func (s *Store) GetOrder(id int64) (model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return model.Order{}, fmt.Errorf("order %d: %w", id, errNotFound)
	}
	return o, nil
}

// SaveOrder computes line subtotals and the order total.
func (s *Store) SaveOrder(id int64, o model.Order) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == 0 {
		o.ID = s.id()
		o.OrderNumber = fmt.Sprintf("ORD-%d", o.ID)
		o.OrderDate = s.stamp()
		if o.Status == "" {
			o.Status = model.OrderPending
		}
	} else {
		prev, ok := s.orders[id]
		if !ok {
			return model.Order{}, fmt.Errorf("order %d: %w", id, errNotFound)
		}
		o.ID = id
		o.OrderNumber = prev.OrderNumber
		o.OrderDate = prev.OrderDate
	}
	total := decimal.Zero
	for i := range o.Items {
		item := &o.Items[i]
		if item.ID == 0 {
			item.ID = s.id()
		}
		item.OrderID = o.ID
		sub := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		item.Subtotal = sub.InexactFloat64()
		total = total.Add(sub)
		s.orderItems[item.ID] = *item
	}
	o.TotalAmount = total.InexactFloat64()
	s.orders[o.ID] = o
	return o, nil
}

func (s *Store) DeleteOrder(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return fmt.Errorf("order %d: %w", id, errNotFound)
	}
	for _, item := range o.Items {
		delete(s.orderItems, item.ID)
	}
	delete(s.orders, id)
	return nil
}

func (s *Store) ListOrderItems() []model.OrderItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.orderItems)
}

func (s *Store) GetOrderItem(id int64) (model.OrderItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.orderItems[id]
	if !ok {
		return model.OrderItem{}, fmt.Errorf("order item %d: %w", id, errNotFound)
	}
	return item, nil
}

func (s *Store) SaveOrderItem(id int64, item model.OrderItem) (model.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == 0 {
		item.ID = s.id()
	} else if _, ok := s.orderItems[id]; !ok {
		return model.OrderItem{}, fmt.Errorf("order item %d: %w", id, errNotFound)
	} else {
		item.ID = id
	}
	item.Subtotal = decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))).InexactFloat64()
	s.orderItems[item.ID] = item
	return item, nil
}

func (s *Store) DeleteOrderItem(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orderItems[id]; !ok {
		return fmt.Errorf("order item %d: %w", id, errNotFound)
	}
	delete(s.orderItems, id)
	return nil
}

// Payments

func (s *Store) ListPayments() []model.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.payments)
}

func (s *Store) GetPayment(id int64) (model.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	if !ok {
		return model.Payment{}, fmt.Errorf("payment %d: %w", id, errNotFound)
	}
	return p, nil
}

func (s *Store) CreatePayment(p model.Payment) (model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[p.OrderID]; !ok {
		return model.Payment{}, fmt.Errorf("order %d: %w", p.OrderID, errBadRequest)
	}
	p.ID = s.id()
	p.PaymentDate = s.stamp()
	if p.PaymentStatus == "" {
		p.PaymentStatus = "COMPLETED"
	}
	s.payments[p.ID] = p
	return p, nil
}

func (s *Store) DeletePayment(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[id]; !ok {
		return fmt.Errorf("payment %d: %w", id, errNotFound)
	}
	delete(s.payments, id)
	return nil
}

// Reviews

func (s *Store) ListReviews(productID, userID int64) []model.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Review{}
	for _, r := range sortedValues(s.reviews) {
		if productID != 0 && r.ProductID != productID {
			continue
		}
		if userID != 0 && r.UserID != userID {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (s *Store) CreateReview(r model.Review) (model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[r.ProductID]
	if !ok {
		return model.Review{}, fmt.Errorf("product %d: %w", r.ProductID, errBadRequest)
	}
	if r.Rating < 1 || r.Rating > 5 {
		return model.Review{}, fmt.Errorf("rating must be 1-5: %w", errBadRequest)
	}
	r.ID = s.id()
	r.ProductName = p.Name
	if u, ok := s.users[r.UserID]; ok {
		r.UserName = u.FullName
	}
	active := true
	r.IsActive = &active
	s.reviews[r.ID] = r
	return r, nil
}

func (s *Store) DeleteReview(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[id]; !ok {
		return fmt.Errorf("review %d: %w", id, errNotFound)
	}
	delete(s.reviews, id)
	return nil
}

// Users

func (s *Store) ListUsers() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.users)
}

func (s *Store) GetUser(id int64) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, fmt.Errorf("user %d: %w", id, errNotFound)
	}
	return u, nil
}

// SaveUser creates (id 0) or updates a user. An empty password on update
// keeps the stored hash.
func (s *Store) SaveUser(id int64, req model.UserRequest) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return model.User{}, fmt.Errorf("email is required: %w", errBadRequest)
	}
	for uid, u := range s.users {
		if uid != id && strings.EqualFold(u.Email, email) {
			return model.User{}, fmt.Errorf("email %s already registered: %w", email, errConflict)
		}
	}

	u := model.User{FullName: req.FullName, Email: email, Phone: req.Phone, Role: req.Role, IsActive: true, Addresses: req.Addresses}
	if u.Role == "" {
		u.Role = model.RoleCustomer
	}
	if id == 0 {
		if req.Password == "" {
			return model.User{}, fmt.Errorf("password is required: %w", errBadRequest)
		}
		u.ID = s.id()
	} else {
		if _, ok := s.users[id]; !ok {
			return model.User{}, fmt.Errorf("user %d: %w", id, errNotFound)
		}
		u.ID = id
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
		if err != nil {
			return model.User{}, err
		}
		s.passwords[u.ID] = hash
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) DeleteUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("user %d: %w", id, errNotFound)
	}
	delete(s.users, id)
	delete(s.passwords, id)
	return nil
}

// Authenticate checks an email/password pair against the stored hash.
func (s *Store) Authenticate(email, password string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, u := range s.users {
		if !strings.EqualFold(u.Email, email) {
			continue
		}
		hash, ok := s.passwords[id]
		if !ok || bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
			break
		}
		return u, nil
	}
	return model.User{}, fmt.Errorf("invalid credentials: %w", errBadRequest)
}
