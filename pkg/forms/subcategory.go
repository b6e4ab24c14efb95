package forms

import (
	"context"
	"strings"
	"sync"

	"github.com/theAriful7/storefront/internal/convert"
	"github.com/theAriful7/storefront/pkg/logger"
	"github.com/theAriful7/storefront/pkg/model"
)

// SubCategoryAPI is implemented by *api.SubCategoryClient.
type SubCategoryAPI interface {
	Get(ctx context.Context, id int64) (*model.SubCategory, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]model.SubCategory, error)
	Create(ctx context.Context, req model.SubCategoryRequest) (*model.SubCategory, error)
	Update(ctx context.Context, id int64, req model.SubCategoryRequest) (*model.SubCategory, error)
}

// SubCategoryValues are the fields of the sub-category form. CategoryID is
// the raw value of the category picker.
type SubCategoryValues struct {
	Name        string `form:"name" validate:"required,min=2,max=100"`
	Description string `form:"description" validate:"max=500"`
	CategoryID  string `form:"categoryId" validate:"required,numgte=1"`
}

// SubCategoryForm creates or edits one sub-category.
type SubCategoryForm struct {
	subCategories SubCategoryAPI
	categories    CategoryAPI
	logger        logger.Logger
	navigator     Navigator

	mu              sync.Mutex
	values          SubCategoryValues
	categoryOptions []model.Category
	state
}

// NewSubCategoryForm creates a form in create mode.
func NewSubCategoryForm(subCategories SubCategoryAPI, categories CategoryAPI, opts ...Option) *SubCategoryForm {
	o := buildOptions(opts)
	return &SubCategoryForm{
		subCategories: subCategories,
		categories:    categories,
		logger:        o.logger,
		navigator:     o.navigator,
	}
}

// Init loads the category picker, then the sub-category when id is not 0.
// A category failure is only logged.
func (f *SubCategoryForm) Init(ctx context.Context, id int64) error {
	f.mu.Lock()
	f.id = id
	f.mode = ModeNew
	if id != 0 {
		f.mode = ModeEditing
	}
	f.loading = true
	f.mu.Unlock()

	cats, catErr := f.categories.List(ctx)
	if catErr != nil {
		f.logger.Error("Error loading categories", "error", catErr)
	}

	var (
		sc  *model.SubCategory
		err error
	)
	if id != 0 {
		sc, err = f.subCategories.Get(ctx, id)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if catErr == nil {
		f.categoryOptions = cats
	}
	if err != nil {
		return f.fail(f.logger, "forms.SubCategoryForm.Init", "Error loading subcategory", err)
	}
	if sc != nil {
		f.values = SubCategoryValues{
			Name:        sc.Name,
			Description: sc.Description,
			CategoryID:  convert.FormatInt(int(sc.CategoryID)),
		}
	}
	f.loading = false
	return nil
}

// Categories returns the options of the category picker.
func (f *SubCategoryForm) Categories() []model.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Category(nil), f.categoryOptions...)
}

// Set replaces the field values and marks the named fields as touched.
func (f *SubCategoryForm) Set(v SubCategoryValues, touched ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = v
	f.touch(touched)
}

// Values returns the current field values.
func (f *SubCategoryForm) Values() SubCategoryValues {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Submit validates the form and creates or updates the sub-category.
func (f *SubCategoryForm) Submit(ctx context.Context) (*model.SubCategory, error) {
	f.mu.Lock()
	f.submitted = true
	if errs := fieldErrors(f.values); len(errs) > 0 {
		f.touch([]string{"name", "description", "categoryId"})
		f.mu.Unlock()
		return nil, &ValidationError{Fields: errs}
	}
	categoryID, err := convert.ParseIDField("categoryId", f.values.CategoryID)
	if err != nil {
		f.mu.Unlock()
		return nil, &ValidationError{Fields: map[string]string{"categoryId": err.Error()}}
	}
	f.loading = true
	f.message = ""
	mode, id := f.mode, f.id
	req := model.SubCategoryRequest{
		Name:        strings.TrimSpace(f.values.Name),
		Description: f.values.Description,
		CategoryID:  categoryID,
	}
	f.mu.Unlock()

	var saved *model.SubCategory
	if mode == ModeEditing {
		saved, err = f.subCategories.Update(ctx, id, req)
	} else {
		saved, err = f.subCategories.Create(ctx, req)
	}

	f.mu.Lock()
	if err != nil {
		defer f.mu.Unlock()
		if mode == ModeEditing {
			return nil, f.fail(f.logger, "forms.SubCategoryForm.Submit", "Error updating subcategory", err)
		}
		return nil, f.fail(f.logger, "forms.SubCategoryForm.Submit", "Error creating subcategory", err)
	}
	f.loading = false
	f.mu.Unlock()

	f.logger.Info("subcategory saved", "subcategory_id", saved.ID, "mode", mode.String())
	navigate(ctx, f.navigator, RouteSubCategories)
	return saved, nil
}

// Cancel leaves the form without saving.
func (f *SubCategoryForm) Cancel(ctx context.Context) {
	navigate(ctx, f.navigator, RouteSubCategories)
}

// FieldErrors maps each invalid field to its message.
func (f *SubCategoryForm) FieldErrors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fieldErrors(f.values)
}

// IsFieldInvalid reports whether field is invalid and was touched or submitted.
func (f *SubCategoryForm) IsFieldInvalid(field string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, bad := fieldErrors(f.values)[field]
	return bad && f.shown(field)
}

// Title is the form heading.
func (f *SubCategoryForm) Title() string {
	if f.Mode() == ModeEditing {
		return "Edit Subcategory"
	}
	return "Create Subcategory"
}

// SubmitLabel is the text of the submit button.
func (f *SubCategoryForm) SubmitLabel() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case f.loading && f.mode == ModeEditing:
		return "Updating..."
	case f.loading:
		return "Creating..."
	case f.mode == ModeEditing:
		return "Update Subcategory"
	}
	return "Create Subcategory"
}

// Mode reports whether the form creates or edits.
func (f *SubCategoryForm) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// Loading reports whether a request is in flight.
func (f *SubCategoryForm) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// ErrorMessage is the last user-facing error, or "".
func (f *SubCategoryForm) ErrorMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}
