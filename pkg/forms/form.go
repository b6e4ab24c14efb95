package forms

import (
	"context"

	"github.com/theAriful7/storefront/core"
	"github.com/theAriful7/storefront/pkg/logger"
)

// Mode is fixed when a form is initialized.
type Mode int

const (
	ModeNew Mode = iota
	ModeEditing
)

func (m Mode) String() string {
	if m == ModeEditing {
		return "editing"
	}
	return "new"
}

// Routes a form navigates to after a successful submit.
const (
	RouteCategories     = "/categories"
	RouteSubCategories  = "/subcategories"
	RouteVendorProducts = "/vendor/products"
)

// Navigator moves the UI to another screen.
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, path string)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(ctx context.Context, path string) {
	f(ctx, path)
}

// Option configures a form.
type Option func(*options)

type options struct {
	logger    logger.Logger
	navigator Navigator
}

// WithLogger sets the logger used to record backend failures.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.logger = logger.OrNoOp(l)
	}
}

// WithNavigator receives the route to show after a successful submit.
func WithNavigator(n Navigator) Option {
	return func(o *options) {
		o.navigator = n
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: logger.NoOpLogger{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// state is shared by every form. Callers hold the form's lock.
type state struct {
	mode      Mode
	id        int64
	submitted bool
	loading   bool
	message   string
	touched   map[string]bool
}

func (s *state) touch(fields []string) {
	if s.touched == nil {
		s.touched = map[string]bool{}
	}
	for _, f := range fields {
		s.touched[f] = true
	}
}

// shown reports whether an error on field should be displayed.
func (s *state) shown(field string) bool {
	return s.submitted || s.touched[field]
}

func (s *state) fail(log logger.Logger, op, msg string, err error) error {
	s.loading = false
	s.message = msg
	log.Error(msg, "op", op, "error", err)
	return &core.StoreError{Op: op, Kind: "forms", Message: msg, Err: err}
}

func navigate(ctx context.Context, n Navigator, path string) {
	if n != nil {
		n.Navigate(ctx, path)
	}
}
