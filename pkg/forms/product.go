package forms

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/theAriful7/storefront/internal/convert"
	"github.com/theAriful7/storefront/pkg/logger"
	"github.com/theAriful7/storefront/pkg/model"
	"github.com/theAriful7/storefront/pkg/principal"
)

// ProductAPI is the part of *api.ProductClient the form uses.
type ProductAPI interface {
	Get(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, req model.ProductRequest, vendorID int64) (*model.Product, error)
	Update(ctx context.Context, id int64, req model.ProductRequest, vendorID int64) (*model.Product, error)
}

// ImageAPI is implemented by *api.ImageClient.
type ImageAPI interface {
	Upload(ctx context.Context, productID int64, files []model.ImageUpload) ([]model.FileData, error)
}

// StatusDraft is the form-only status of an unfinished product. The
// backend has no draft state; a draft is saved as PENDING.
const StatusDraft = "draft"

// Color is a selectable colour swatch.
type Color struct {
	Name  string
	Value string // CSS hex
}

// PredefinedColors are offered on every new form.
var PredefinedColors = []Color{
	{"Black", "#000000"}, {"White", "#FFFFFF"}, {"Red", "#DC2626"}, {"Blue", "#2563EB"},
	{"Green", "#16A34A"}, {"Yellow", "#EAB308"}, {"Purple", "#9333EA"}, {"Pink", "#DB2777"},
	{"Gray", "#6B7280"}, {"Brown", "#92400E"}, {"Orange", "#EA580C"}, {"Navy", "#1E3A8A"},
}

// PredefinedSizes are offered on every new form.
var PredefinedSizes = []string{"XS", "S", "M", "L", "XL", "XXL", "XXXL"}

// SpecificationTypes suggests keys for specification rows.
var SpecificationTypes = []string{
	"Material", "Fabric", "Care Instructions", "Country of Origin", "Warranty", "Battery Life",
	"Screen Size", "Processor", "RAM", "Storage", "Connectivity", "Compatibility",
}

// SpecRow is one editable specification row.
type SpecRow struct {
	Key   string `form:"key"`
	Value string `form:"value"`
}

// ProductValues are the fields of the product form. Numeric fields hold the
// raw text the user typed.
type ProductValues struct {
	VendorID        string    `form:"vendorId" validate:"required,numgte=1"`
	Name            string    `form:"name" validate:"required,min=3"`
	Description     string    `form:"description" validate:"required,min=10"`
	Price           string    `form:"price" validate:"required,numgte=0"`
	Stock           string    `form:"stock" validate:"required,numgte=0"`
	SKU             string    `form:"sku" validate:"required"`
	CategoryID      string    `form:"categoryId" validate:"required"`
	SubCategoryID   string    `form:"subCategoryId"`
	Discount        string    `form:"discount" validate:"numgte=0"`
	Brand           string    `form:"brand"`
	Weight          string    `form:"weight" validate:"numgte=0"`
	Length          string    `form:"length" validate:"numgte=0"`
	Width           string    `form:"width" validate:"numgte=0"`
	Height          string    `form:"height" validate:"numgte=0"`
	ShippingClass   string    `form:"shippingClass"`
	ManageStock     bool      `form:"manageStock"`
	SEOTitle        string    `form:"seoTitle"`
	MetaDescription string    `form:"metaDescription"`
	Status          string    `form:"status"`
	ImageURLs       []string  `form:"imageUrls" validate:"dive,httpurl"`
	Specifications  []SpecRow `form:"specifications"`
}

func defaultProductValues() ProductValues {
	return ProductValues{
		Discount:       "0",
		ShippingClass:  "standard",
		ManageStock:    true,
		Status:         StatusDraft,
		ImageURLs:      []string{""},
		Specifications: []SpecRow{{}},
	}
}

// StagedImage is a local file waiting to be uploaded after the product is
// saved. Preview is a data: URL usable before the upload.
type StagedImage struct {
	Upload  model.ImageUpload
	Preview string
}

// ProductForm creates or edits one product of the current vendor. The mode
// is decided by Init and never changes afterwards.
type ProductForm struct {
	products      ProductAPI
	images        ImageAPI
	categories    CategoryAPI
	subCategories SubCategoryAPI
	principal     principal.Provider
	logger        logger.Logger
	navigator     Navigator

	mu             sync.Mutex
	values         ProductValues
	colors         []Color
	sizes          []string
	selectedColors []string
	selectedSizes  []string
	staged         []StagedImage
	primary        int
	categoryList   []model.Category
	subCatList     []model.SubCategory
	imageMessage   string
	state
}

// NewProductForm builds an empty form. Call Init before use.
func NewProductForm(products ProductAPI, images ImageAPI, categories CategoryAPI, subCategories SubCategoryAPI, p principal.Provider, opts ...Option) *ProductForm {
	o := buildOptions(opts)
	return &ProductForm{
		products:      products,
		images:        images,
		categories:    categories,
		subCategories: subCategories,
		principal:     p,
		logger:        o.logger,
		navigator:     o.navigator,
		values:        defaultProductValues(),
		colors:        append([]Color(nil), PredefinedColors...),
		sizes:         append([]string(nil), PredefinedSizes...),
	}
}

// Init loads the category picker and fixes the mode. With id 0 the form
// starts empty for the current vendor; otherwise the product is loaded,
// its Color and Size specifications move into the pickers and its
// sub-categories are loaded.
func (f *ProductForm) Init(ctx context.Context, id int64) error {
	f.mu.Lock()
	f.id = id
	f.mode = ModeNew
	if id != 0 {
		f.mode = ModeEditing
	}
	f.loading = true
	f.message = ""
	f.mu.Unlock()

	cats, catErr := f.categories.List(ctx)
	f.mu.Lock()
	if catErr != nil {
		f.message = "Error loading categories"
		f.logger.Error("Error loading categories", "error", catErr)
	} else {
		f.categoryList = cats
	}
	f.mu.Unlock()

	if id == 0 {
		vendorID, err := f.principal.VendorID(ctx)
		f.mu.Lock()
		defer f.mu.Unlock()
		if err != nil {
			f.logger.Warn("no vendor for new product", "error", err)
		} else {
			f.values.VendorID = convert.FormatInt(int(vendorID))
		}
		f.loading = false
		return nil
	}

	p, err := f.products.Get(ctx, id)
	if err != nil {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.fail(f.logger, "forms.ProductForm.Init", "Error loading product", err)
	}

	var subs []model.SubCategory
	if p.CategoryID != 0 {
		subs, err = f.subCategories.ListByCategory(ctx, p.CategoryID)
		if err != nil {
			f.logger.Error("Error loading sub-categories", "category_id", p.CategoryID, "error", err)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.populate(*p)
	f.subCatList = subs
	f.loading = false
	return nil
}

// populate copies a fetched product into the form. Callers hold the lock.
func (f *ProductForm) populate(p model.Product) {
	v := defaultProductValues()
	if p.VendorID != 0 {
		v.VendorID = convert.FormatInt(int(p.VendorID))
	}
	v.Name = p.Name
	v.Description = p.Description
	v.Price = convert.FormatFloat(p.Price)
	v.Stock = convert.FormatInt(p.Stock)
	v.SKU = p.SKU
	if p.Discount != 0 {
		v.Discount = convert.FormatFloat(p.Discount)
	}
	v.Brand = p.Brand
	if p.CategoryID != 0 {
		v.CategoryID = convert.FormatInt(int(p.CategoryID))
	}
	if p.SubCategoryID != 0 {
		v.SubCategoryID = convert.FormatInt(int(p.SubCategoryID))
	}
	if p.Status != "" {
		v.Status = string(p.Status)
	}
	if len(p.ImageURLs) > 0 {
		v.ImageURLs = append([]string(nil), p.ImageURLs...)
	}

	f.selectedColors, f.selectedSizes = nil, nil
	var rows []SpecRow
	for _, spec := range p.Specifications {
		switch spec.Key {
		case model.SpecColor:
			f.selectedColors = append(f.selectedColors, spec.Value)
		case model.SpecSize:
			f.selectedSizes = append(f.selectedSizes, spec.Value)
		default:
			rows = append(rows, SpecRow{Key: spec.Key, Value: spec.Value})
		}
	}
	if len(rows) > 0 {
		v.Specifications = rows
	}
	f.values = v
}

// Set replaces the field values and marks the named fields as touched.
func (f *ProductForm) Set(v ProductValues, touched ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = v
	f.touch(touched)
}

// Values returns a copy of the field values.
func (f *ProductForm) Values() ProductValues {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.values
	v.ImageURLs = append([]string(nil), v.ImageURLs...)
	v.Specifications = append([]SpecRow(nil), v.Specifications...)
	return v
}

// SelectCategory changes the category, loads its sub-categories and clears
// the sub-category. An empty value clears both.
func (f *ProductForm) SelectCategory(ctx context.Context, categoryID string) error {
	id, err := convert.ParseIDField("categoryId", categoryID)
	if err != nil {
		return err
	}
	var subs []model.SubCategory
	if id != 0 {
		subs, err = f.subCategories.ListByCategory(ctx, id)
		if err != nil {
			f.logger.Error("Error loading sub-categories", "category_id", id, "error", err)
			return err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.CategoryID = categoryID
	f.values.SubCategoryID = ""
	f.subCatList = subs
	return nil
}

// Categories returns the category options.
func (f *ProductForm) Categories() []model.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Category(nil), f.categoryList...)
}

// SubCategories returns the sub-categories of the selected category.
func (f *ProductForm) SubCategories() []model.SubCategory {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.SubCategory(nil), f.subCatList...)
}

// ToggleColor selects or deselects a colour.
func (f *ProductForm) ToggleColor(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selectedColors = toggle(f.selectedColors, name)
}

// AddCustomColor offers a new colour and selects it. Blank input is ignored.
func (f *ProductForm) AddCustomColor(name, value string) {
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)
	if name == "" || value == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.colors = append(f.colors, Color{Name: name, Value: value})
	f.selectedColors = append(f.selectedColors, name)
}

// ToggleSize selects or deselects a size.
func (f *ProductForm) ToggleSize(size string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selectedSizes = toggle(f.selectedSizes, size)
}

// AddCustomSize offers a new size and selects it. Blank input and sizes
// already offered are ignored.
func (f *ProductForm) AddCustomSize(size string) {
	size = strings.TrimSpace(size)
	f.mu.Lock()
	defer f.mu.Unlock()
	if size == "" || indexOf(f.sizes, size) >= 0 {
		return
	}
	f.sizes = append(f.sizes, size)
	f.selectedSizes = append(f.selectedSizes, size)
}

// Colors returns the colour palette offered by the form.
func (f *ProductForm) Colors() []Color {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Color(nil), f.colors...)
}

// Sizes returns the size options offered by the form.
func (f *ProductForm) Sizes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sizes...)
}

// SelectedColors returns the ticked colours in selection order.
func (f *ProductForm) SelectedColors() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.selectedColors...)
}

// SelectedSizes returns the ticked sizes in selection order.
func (f *ProductForm) SelectedSizes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.selectedSizes...)
}

// IsColorSelected reports whether the named colour is ticked.
func (f *ProductForm) IsColorSelected(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return indexOf(f.selectedColors, name) >= 0
}

// IsSizeSelected reports whether size is ticked.
func (f *ProductForm) IsSizeSelected(size string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return indexOf(f.selectedSizes, size) >= 0
}

// AddImageURL appends an image URL row.
func (f *ProductForm) AddImageURL(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.ImageURLs = append(f.values.ImageURLs, url)
}

// SetImageURL edits row i. Out-of-range rows are ignored.
func (f *ProductForm) SetImageURL(i int, url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= 0 && i < len(f.values.ImageURLs) {
		f.values.ImageURLs[i] = url
		f.touch([]string{fmt.Sprintf("imageUrls[%d]", i)})
	}
}

// RemoveImageURL deletes row i. Out-of-range rows are ignored.
func (f *ProductForm) RemoveImageURL(i int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.ImageURLs = removeAt(f.values.ImageURLs, i)
}

// AddSpecification appends a specification row.
func (f *ProductForm) AddSpecification(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.Specifications = append(f.values.Specifications, SpecRow{Key: key, Value: value})
}

// SetSpecification edits row i. Out-of-range rows are ignored.
func (f *ProductForm) SetSpecification(i int, key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= 0 && i < len(f.values.Specifications) {
		f.values.Specifications[i] = SpecRow{Key: key, Value: value}
	}
}

// RemoveSpecification deletes row i. Out-of-range rows are ignored.
func (f *ProductForm) RemoveSpecification(i int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.Specifications = removeAt(f.values.Specifications, i)
}

// StageImage keeps a local file for upload after the next successful
// submit and returns its preview URL.
func (f *ProductForm) StageImage(upload model.ImageUpload) string {
	contentType := upload.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(upload.Data)
	}
	preview := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(upload.Data)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.staged = append(f.staged, StagedImage{Upload: upload, Preview: preview})
	return preview
}

// UnstageImage drops staged image i and keeps the primary on the same file
// when possible.
func (f *ProductForm) UnstageImage(i int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.staged) {
		return
	}
	f.staged = removeAt(f.staged, i)
	switch {
	case f.primary == i:
		f.primary = 0
	case f.primary > i:
		f.primary--
	}
}

// SetPrimaryImage marks staged image i as the one to show first.
func (f *ProductForm) SetPrimaryImage(i int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= 0 && i < len(f.staged) {
		f.primary = i
	}
}

// StagedImages returns the images waiting to be uploaded on submit.
func (f *ProductForm) StagedImages() []StagedImage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]StagedImage(nil), f.staged...)
}

// BuildRequest turns the current values into the request payload. The
// specifications are the selected colours, then the sizes, then every
// complete row whose key is neither Color nor Size.
func (f *ProductForm) BuildRequest() (model.ProductRequest, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buildRequestLocked()
}

func (f *ProductForm) buildRequestLocked() (model.ProductRequest, int64, error) {
	v := f.values
	var req model.ProductRequest

	vendorID, err := convert.ParseIDField("vendorId", v.VendorID)
	if err != nil {
		return req, 0, err
	}
	if req.Price, err = convert.ParseFloatField("price", v.Price); err != nil {
		return req, 0, err
	}
	if req.Stock, err = convert.ParseIntField("stock", v.Stock); err != nil {
		return req, 0, err
	}
	if req.CategoryID, err = convert.ParseIDField("categoryId", v.CategoryID); err != nil {
		return req, 0, err
	}
	if req.SubCategoryID, err = convert.ParseIDField("subCategoryId", v.SubCategoryID); err != nil {
		return req, 0, err
	}
	if req.Discount, err = convert.ParseFloatField("discount", v.Discount); err != nil {
		return req, 0, err
	}

	req.Name = strings.TrimSpace(v.Name)
	req.Description = v.Description
	req.SKU = strings.TrimSpace(v.SKU)
	req.Brand = strings.TrimSpace(v.Brand)
	req.Status = submitStatus(v.Status)

	req.ImageURLs = []string{}
	for _, u := range v.ImageURLs {
		if u = strings.TrimSpace(u); u != "" {
			req.ImageURLs = append(req.ImageURLs, u)
		}
	}

	specs := make([]model.ProductSpecification, 0, len(f.selectedColors)+len(f.selectedSizes)+len(v.Specifications))
	for _, c := range f.selectedColors {
		specs = append(specs, model.ProductSpecification{Key: model.SpecColor, Value: c})
	}
	for _, s := range f.selectedSizes {
		specs = append(specs, model.ProductSpecification{Key: model.SpecSize, Value: s})
	}
	for _, row := range v.Specifications {
		if row.Key == "" || row.Value == "" || row.Key == model.SpecColor || row.Key == model.SpecSize {
			continue
		}
		specs = append(specs, model.ProductSpecification{Key: row.Key, Value: row.Value})
	}
	req.Specifications = specs
	return req, vendorID, nil
}

// submitStatus maps the form status onto a backend status. Drafts and
// unknown values are sent as PENDING.
func submitStatus(s string) model.ProductStatus {
	if status, ok := model.ParseProductStatus(s); ok {
		return status
	}
	return model.StatusPending
}

// Submit validates and saves the product, then uploads any staged images.
// A failed save stops before the upload. A failed upload keeps the saved
// product: Submit returns it together with the error, sets ImageError and
// does not navigate.
func (f *ProductForm) Submit(ctx context.Context) (*model.Product, error) {
	f.mu.Lock()
	f.submitted = true
	if errs := fieldErrors(f.values); len(errs) > 0 {
		f.mu.Unlock()
		return nil, &ValidationError{Fields: errs}
	}
	req, vendorID, err := f.buildRequestLocked()
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.loading = true
	f.message = ""
	f.imageMessage = ""
	mode, id := f.mode, f.id
	uploads := f.uploadsLocked()
	f.mu.Unlock()

	var saved *model.Product
	if mode == ModeEditing {
		saved, err = f.products.Update(ctx, id, req, vendorID)
	} else {
		saved, err = f.products.Create(ctx, req, vendorID)
	}
	if err != nil {
		f.mu.Lock()
		defer f.mu.Unlock()
		if mode == ModeEditing {
			return nil, f.fail(f.logger, "forms.ProductForm.Submit", "Error updating product", err)
		}
		return nil, f.fail(f.logger, "forms.ProductForm.Submit", "Error creating product", err)
	}
	f.logger.Info("product saved", "product_id", saved.ID, "vendor_id", vendorID, "mode", mode.String())

	if len(uploads) > 0 {
		if _, err := f.images.Upload(ctx, saved.ID, uploads); err != nil {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.loading = false
			f.imageMessage = "Error uploading images"
			f.logger.Error("Error uploading images", "product_id", saved.ID, "error", err)
			return saved, fmt.Errorf("product %d saved but images were not uploaded: %w", saved.ID, err)
		}
	}

	f.mu.Lock()
	f.loading = false
	f.staged = nil
	f.primary = 0
	f.mu.Unlock()

	navigate(ctx, f.navigator, RouteVendorProducts)
	return saved, nil
}

// SaveAsDraft sets the status to draft and submits.
func (f *ProductForm) SaveAsDraft(ctx context.Context) (*model.Product, error) {
	f.mu.Lock()
	f.values.Status = StatusDraft
	f.mu.Unlock()
	return f.Submit(ctx)
}

// uploadsLocked tags staged files with their position and the primary flag.
func (f *ProductForm) uploadsLocked() []model.ImageUpload {
	uploads := make([]model.ImageUpload, 0, len(f.staged))
	for i, s := range f.staged {
		u := s.Upload
		u.SortOrder = i
		u.IsPrimary = i == f.primary
		if u.AltText == "" {
			u.AltText = f.values.Name
		}
		uploads = append(uploads, u)
	}
	return uploads
}

// FieldErrors maps each invalid field to its message.
func (f *ProductForm) FieldErrors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fieldErrors(f.values)
}

// IsFieldInvalid reports whether field is invalid and was touched or submitted.
func (f *ProductForm) IsFieldInvalid(field string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, bad := fieldErrors(f.values)[field]
	return bad && f.shown(field)
}

// Mode reports whether the form creates or edits.
func (f *ProductForm) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// Loading reports whether a request is in flight.
func (f *ProductForm) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// ErrorMessage is the last user-facing error, or "".
func (f *ProductForm) ErrorMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// ImageError is set when the product saved but its images did not.
func (f *ProductForm) ImageError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.imageMessage
}

func indexOf(items []string, s string) int {
	for i, item := range items {
		if item == s {
			return i
		}
	}
	return -1
}

func toggle(items []string, s string) []string {
	if i := indexOf(items, s); i >= 0 {
		return removeAt(items, i)
	}
	return append(items, s)
}

func removeAt[T any](items []T, i int) []T {
	if i < 0 || i >= len(items) {
		return items
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}
