package model

import "strings"

// Category is a top-level product grouping.
type Category struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SubCategory belongs to exactly one Category. CategoryName is denormalized
// by the backend for display.
type SubCategory struct {
	ID           int64      `json:"id,omitempty"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	CategoryID   int64      `json:"categoryId"`
	CategoryName string     `json:"categoryName,omitempty"`
	CreatedAt    *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt    *Timestamp `json:"updatedAt,omitempty"`
}

// SubCategoryRequest is the create/update payload for a SubCategory.
type SubCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CategoryID  int64  `json:"categoryId"`
}

// ProductStatus is the moderation/lifecycle state of a product.
type ProductStatus string

const (
	StatusPending  ProductStatus = "PENDING"
	StatusApproved ProductStatus = "APPROVED"
	StatusRejected ProductStatus = "REJECTED"
	StatusActive   ProductStatus = "ACTIVE"
	StatusInactive ProductStatus = "INACTIVE"
)

// ProductStatuses lists every status the backend accepts, in display order.
var ProductStatuses = []ProductStatus{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusActive,
	StatusInactive,
}

// Valid reports whether s is one of ProductStatuses.
func (s ProductStatus) Valid() bool {
	for _, known := range ProductStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseProductStatus accepts any casing of a known status.
func ParseProductStatus(s string) (ProductStatus, bool) {
	status := ProductStatus(strings.ToUpper(strings.TrimSpace(s)))
	return status, status.Valid()
}

// ProductSpecification is one key/value row of a product's specifications.
type ProductSpecification struct {
	Key          string `json:"key"`
	Value        string `json:"value"`
	DisplayOrder int    `json:"displayOrder,omitempty"`
}

// Well-known specification keys that the product form edits through
// dedicated pickers instead of free-form rows.
const (
	SpecColor = "Color"
	SpecSize  = "Size"
)

// FileData describes one stored product image.
type FileData struct {
	ID        int64  `json:"id"`
	FileName  string `json:"fileName"`
	FilePath  string `json:"filePath"`
	FileType  string `json:"fileType,omitempty"`
	FileSize  int64  `json:"fileSize,omitempty"`
	AltText   string `json:"altText,omitempty"`
	SortOrder int    `json:"sortOrder"`
	IsPrimary bool   `json:"isPrimary"`
	MimeType  string `json:"mimeType,omitempty"`
}

// Product is a sellable item as returned by the backend.
type Product struct {
	ID              int64                  `json:"id,omitempty"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	Price           float64                `json:"price"`
	Stock           int                    `json:"stock"`
	SKU             string                 `json:"sku,omitempty"`
	Discount        float64                `json:"discount,omitempty"`
	Brand           string                 `json:"brand,omitempty"`
	Images          []FileData             `json:"images,omitempty"`
	ImageURLs       []string               `json:"imageUrls,omitempty"`
	CategoryID      int64                  `json:"categoryId,omitempty"`
	CategoryName    string                 `json:"categoryName,omitempty"`
	SubCategoryID   int64                  `json:"subCategoryId,omitempty"`
	SubCategoryName string                 `json:"subCategoryName,omitempty"`
	Status          ProductStatus          `json:"status,omitempty"`
	VendorID        int64                  `json:"vendorId,omitempty"`
	VendorName      string                 `json:"vendorName,omitempty"`
	CreatedAt       *Timestamp             `json:"createdAt,omitempty"`
	UpdatedAt       *Timestamp             `json:"updatedAt,omitempty"`
	Specifications  []ProductSpecification `json:"specifications"`
}

// ProductRequest is the create/update payload for a Product. The vendor is
// carried in the URL, not the body.
type ProductRequest struct {
	Name           string                 `json:"name"`
	Description    string                 `json:"description"`
	Price          float64                `json:"price"`
	Stock          int                    `json:"stock"`
	SKU            string                 `json:"sku,omitempty"`
	ImageURLs      []string               `json:"imageUrls"`
	CategoryID     int64                  `json:"categoryId"`
	SubCategoryID  int64                  `json:"subCategoryId,omitempty"`
	Discount       float64                `json:"discount,omitempty"`
	Brand          string                 `json:"brand,omitempty"`
	Status         ProductStatus          `json:"status,omitempty"`
	Specifications []ProductSpecification `json:"specifications"`
}

// ImageUpload is one file of a multipart image upload. Files are tagged by
// their position: AltText, SortOrder and IsPrimary are sent as arrays
// parallel to the file list.
type ImageUpload struct {
	FileName    string
	ContentType string
	Data        []byte
	AltText     string
	SortOrder   int
	IsPrimary   bool
}

// HomeProducts groups the three home page product rails.
type HomeProducts struct {
	Trending    []Product `json:"trending"`
	BestSellers []Product `json:"bestsellers"`
	Featured    []Product `json:"featured"`
}

// HomeLimits bounds the size of each home page rail.
type HomeLimits struct {
	Trending    int
	BestSellers int
	Featured    int
}

// DefaultHomeLimits matches the home page's eight-item rails.
var DefaultHomeLimits = HomeLimits{Trending: 8, BestSellers: 8, Featured: 8}
