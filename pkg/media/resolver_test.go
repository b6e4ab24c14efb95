package media

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theAriful7/storefront/pkg/model"
)

func TestResolvePrimaryImage(t *testing.T) {
	tests := []struct {
		name   string
		images []model.FileData
		want   string
	}{
		{
			name:   "no images yields placeholder",
			images: nil,
			want:   "/assets/images/default-product.png",
		},
		{
			name: "primary wins over sort order",
			images: []model.FileData{
				{FilePath: "a.png", SortOrder: 0},
				{FilePath: "b.png", SortOrder: 5, IsPrimary: true},
			},
			want: "http://localhost:8080/b.png",
		},
		{
			name: "lowest sort order without primary",
			images: []model.FileData{
				{FilePath: "/uploads/c.png", SortOrder: 2},
				{FilePath: "/uploads/d.png", SortOrder: 1},
			},
			want: "http://localhost:8080/uploads/d.png",
		},
		{
			name: "first element wins ties",
			images: []model.FileData{
				{FilePath: "first.png", SortOrder: 1},
				{FilePath: "second.png", SortOrder: 1},
			},
			want: "http://localhost:8080/first.png",
		},
		{
			name: "first primary wins when several are flagged",
			images: []model.FileData{
				{FilePath: "p1.png", IsPrimary: true, SortOrder: 9},
				{FilePath: "p2.png", IsPrimary: true, SortOrder: 0},
			},
			want: "http://localhost:8080/p1.png",
		},
		{
			name: "absolute URL untouched",
			images: []model.FileData{
				{FilePath: "https://cdn.example.com/x.png", IsPrimary: true},
			},
			want: "https://cdn.example.com/x.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePrimaryImage(tt.images))
		})
	}
}

func TestQualifyIsIdempotent(t *testing.T) {
	r := NewResolver("https://shop.example.com/", "")
	for _, p := range []string{"uploads/a.png", "/uploads/a.png", "//uploads/a.png", "http://x/y.png"} {
		once := r.Qualify(p)
		assert.Equal(t, once, r.Qualify(once), p)
	}
	assert.Equal(t, "https://shop.example.com/uploads/a.png", r.Qualify("///uploads/a.png"))
}

func TestAllImagePaths(t *testing.T) {
	images := []model.FileData{
		{FilePath: "c.png", SortOrder: 3},
		{FilePath: "a.png", SortOrder: 1},
		{FilePath: "b.png", SortOrder: 1},
	}

	paths := Resolver{}.AllImagePaths(images)

	assert.Equal(t, []string{
		"http://localhost:8080/a.png",
		"http://localhost:8080/b.png",
		"http://localhost:8080/c.png",
	}, paths)
	assert.Equal(t, "c.png", images[0].FilePath, "input order is preserved")

	assert.Equal(t, []string{"/img/none.png"}, NewResolver("", "/img/none.png").AllImagePaths(nil))
}

func TestProductImageFallsBackToURLs(t *testing.T) {
	r := Resolver{}
	assert.Equal(t, "https://img.example.com/1.jpg",
		r.ProductImage(model.Product{ImageURLs: []string{"", "https://img.example.com/1.jpg"}}))
	assert.Equal(t, DefaultPlaceholder, r.ProductImage(model.Product{}))
}
