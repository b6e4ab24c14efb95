// Package forms implements the create/edit forms of the vendor and admin
// screens: categories, sub-categories and products.
//
// A form is initialized once with an id. Id 0 starts a new record; any
// other id loads the record and switches the form to editing. Field values
// are plain structs validated with go-playground/validator; errors are keyed
// by the `form` tag and shown only for touched fields until the first
// submit.
//
//	f := forms.NewCategoryForm(client.Categories, forms.WithNavigator(nav))
//	_ = f.Init(ctx, 0)
//	f.Set(forms.CategoryValues{Name: "Garden"}, "name")
//	saved, err := f.Submit(ctx)
//
// A successful submit sends the navigator to the matching list route.
package forms
