// Package catalog holds the headless logic of the catalog screens: the
// product, vendor product, category and sub-category lists, the home feed,
// and the price helpers they share.
//
// Lists fetch once and filter locally. Filters are plain values with an
// Apply method, so they can be used without a controller:
//
//	f := catalog.DefaultProductFilter()
//	f.MinPrice, f.MaxPrice = 20, 100
//	cheap := f.Apply(products, categories, nil)
//
// Controllers flatten backend failures into a short message available from
// ErrorMessage and also return the underlying error. Deletes ask a
// Confirmer first and return core.ErrCanceledByUser when declined.
package catalog
