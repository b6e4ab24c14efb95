package forms

import (
	"context"
	"strings"
	"sync"

	"github.com/theAriful7/storefront/pkg/logger"
	"github.com/theAriful7/storefront/pkg/model"
)

// CategoryAPI is implemented by *api.CategoryClient.
type CategoryAPI interface {
	List(ctx context.Context) ([]model.Category, error)
	Get(ctx context.Context, id int64) (*model.Category, error)
	Create(ctx context.Context, category model.Category) (*model.Category, error)
	Update(ctx context.Context, id int64, category model.Category) (*model.Category, error)
}

// CategoryValues are the fields of the category form.
type CategoryValues struct {
	Name        string `form:"name" validate:"required,min=2,max=100"`
	Description string `form:"description" validate:"max=500"`
}

// CategoryForm creates or edits one category.
type CategoryForm struct {
	api       CategoryAPI
	logger    logger.Logger
	navigator Navigator

	mu     sync.Mutex
	values CategoryValues
	state
}

// NewCategoryForm creates a form in create mode.
func NewCategoryForm(api CategoryAPI, opts ...Option) *CategoryForm {
	o := buildOptions(opts)
	return &CategoryForm{api: api, logger: o.logger, navigator: o.navigator}
}

// Init fixes the mode: id 0 starts an empty form, any other id loads that
// category for editing.
func (f *CategoryForm) Init(ctx context.Context, id int64) error {
	f.mu.Lock()
	f.id = id
	f.mode = ModeNew
	if id == 0 {
		f.mu.Unlock()
		return nil
	}
	f.mode = ModeEditing
	f.loading = true
	f.mu.Unlock()

	c, err := f.api.Get(ctx, id)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		return f.fail(f.logger, "forms.CategoryForm.Init", "Error loading category", err)
	}
	f.values = CategoryValues{Name: c.Name, Description: c.Description}
	f.loading = false
	return nil
}

// Set replaces the field values and marks the named fields as touched.
func (f *CategoryForm) Set(v CategoryValues, touched ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = v
	f.touch(touched)
}

// Values returns the current field values.
func (f *CategoryForm) Values() CategoryValues {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Submit validates the form and creates or updates the category. On
// success the navigator is sent to the category list.
func (f *CategoryForm) Submit(ctx context.Context) (*model.Category, error) {
	f.mu.Lock()
	f.submitted = true
	if errs := fieldErrors(f.values); len(errs) > 0 {
		f.mu.Unlock()
		return nil, &ValidationError{Fields: errs}
	}
	f.loading = true
	f.message = ""
	mode, id := f.mode, f.id
	body := model.Category{Name: strings.TrimSpace(f.values.Name), Description: f.values.Description}
	f.mu.Unlock()

	var (
		saved *model.Category
		err   error
	)
	if mode == ModeEditing {
		saved, err = f.api.Update(ctx, id, body)
	} else {
		saved, err = f.api.Create(ctx, body)
	}

	f.mu.Lock()
	if err != nil {
		defer f.mu.Unlock()
		if mode == ModeEditing {
			return nil, f.fail(f.logger, "forms.CategoryForm.Submit", "Error updating category", err)
		}
		return nil, f.fail(f.logger, "forms.CategoryForm.Submit", "Error creating category", err)
	}
	f.loading = false
	f.mu.Unlock()

	f.logger.Info("category saved", "category_id", saved.ID, "mode", mode.String())
	navigate(ctx, f.navigator, RouteCategories)
	return saved, nil
}

// FieldErrors validates the current values.
func (f *CategoryForm) FieldErrors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fieldErrors(f.values)
}

// IsFieldInvalid reports whether field has an error that should be shown:
// the field was touched or the form was submitted.
func (f *CategoryForm) IsFieldInvalid(field string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, bad := fieldErrors(f.values)[field]
	return bad && f.shown(field)
}

// Mode reports whether the form creates or edits.
func (f *CategoryForm) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// Loading reports whether a request is in flight.
func (f *CategoryForm) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// ErrorMessage is the last user-facing error, or "".
func (f *CategoryForm) ErrorMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}
