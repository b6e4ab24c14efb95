// Package media turns stored product image records into displayable URLs.
package media

import (
	"sort"
	"strings"

	"github.com/theAriful7/storefront/pkg/model"
)

const (
	// DefaultOrigin is the backend origin that serves uploaded images.
	DefaultOrigin = "http://localhost:8080"
	// DefaultPlaceholder is shown for products without images.
	DefaultPlaceholder = "/assets/images/default-product.png"
)

// Resolver picks and qualifies product image paths. The zero value uses
// DefaultOrigin and DefaultPlaceholder.
type Resolver struct {
	Origin      string
	Placeholder string
}

// NewResolver returns a Resolver; empty arguments fall back to the defaults.
func NewResolver(origin, placeholder string) Resolver {
	return Resolver{Origin: origin, Placeholder: placeholder}
}

var defaultResolver = Resolver{}

// ResolvePrimaryImage is Resolver.ResolvePrimaryImage with the defaults.
func ResolvePrimaryImage(images []model.FileData) string {
	return defaultResolver.ResolvePrimaryImage(images)
}

// Qualify is Resolver.Qualify with the defaults.
func Qualify(path string) string {
	return defaultResolver.Qualify(path)
}

func (r Resolver) origin() string {
	if r.Origin == "" {
		return DefaultOrigin
	}
	return strings.TrimRight(r.Origin, "/")
}

func (r Resolver) placeholder() string {
	if r.Placeholder == "" {
		return DefaultPlaceholder
	}
	return r.Placeholder
}

// PrimaryPath returns the raw path of the image to show for a product: the
// first image flagged primary, else the lowest sortOrder (first wins on
// ties), else the placeholder.
func (r Resolver) PrimaryPath(images []model.FileData) string {
	if len(images) == 0 {
		return r.placeholder()
	}
	for _, img := range images {
		if img.IsPrimary {
			return img.FilePath
		}
	}
	best := images[0]
	for _, img := range images[1:] {
		if img.SortOrder < best.SortOrder {
			best = img
		}
	}
	return best.FilePath
}

// ResolvePrimaryImage returns the qualified URL of PrimaryPath. The
// placeholder is an app-local asset and is returned unqualified.
func (r Resolver) ResolvePrimaryImage(images []model.FileData) string {
	if len(images) == 0 {
		return r.placeholder()
	}
	return r.Qualify(r.PrimaryPath(images))
}

// Qualify makes a stored path absolute. Paths starting with "http" are
// returned unchanged; anything else is joined to the origin with exactly one
// slash. Qualify(Qualify(p)) == Qualify(p).
func (r Resolver) Qualify(path string) string {
	if strings.HasPrefix(path, "http") {
		return path
	}
	return r.origin() + "/" + strings.TrimLeft(path, "/")
}

// AllImagePaths returns every image path ordered by sortOrder (stable), or
// just the placeholder when there are none. The input is not modified.
func (r Resolver) AllImagePaths(images []model.FileData) []string {
	if len(images) == 0 {
		return []string{r.placeholder()}
	}
	sorted := make([]model.FileData, len(images))
	copy(sorted, images)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortOrder < sorted[j].SortOrder
	})

	paths := make([]string, len(sorted))
	for i, img := range sorted {
		paths[i] = r.Qualify(img.FilePath)
	}
	return paths
}

// ProductImage resolves the image for a product, preferring uploaded images
// and falling back to the first external image URL.
func (r Resolver) ProductImage(p model.Product) string {
	if len(p.Images) == 0 {
		for _, u := range p.ImageURLs {
			if u != "" {
				return r.Qualify(u)
			}
		}
	}
	return r.ResolvePrimaryImage(p.Images)
}
