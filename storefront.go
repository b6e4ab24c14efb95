// Package storefront is the entry point of the storefront client SDK.
// New wires configuration, logging, telemetry, the current principal, the
// REST client and the shared cart cache; the controller constructors on
// Store hand out screens bound to those shared parts.
//
//	store, err := storefront.New(ctx, storefront.WithConfigOptions(
//	    core.WithAPIBaseURL("https://shop.example.com"),
//	    core.WithPrincipal(42, 7),
//	))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close(ctx)
//	if err := store.Cart.Initialize(ctx); err != nil { ... }
//
// Import the pkg/ packages directly to use a single component without the
// rest.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/theAriful7/storefront/core"
	"github.com/theAriful7/storefront/pkg/api"
	"github.com/theAriful7/storefront/pkg/cart"
	"github.com/theAriful7/storefront/pkg/catalog"
	"github.com/theAriful7/storefront/pkg/dashboard"
	"github.com/theAriful7/storefront/pkg/forms"
	"github.com/theAriful7/storefront/pkg/logger"
	"github.com/theAriful7/storefront/pkg/media"
	"github.com/theAriful7/storefront/pkg/memory"
	"github.com/theAriful7/storefront/pkg/model"
	"github.com/theAriful7/storefront/pkg/principal"
	"github.com/theAriful7/storefront/pkg/telemetry"
)

// Store is a wired SDK instance. Its fields are safe for concurrent use.
type Store struct {
	Config    *core.Config
	Logger    logger.Logger
	Telemetry *telemetry.OTELProvider
	Principal principal.Provider
	API       *api.Client
	Images    media.Resolver
	Cart      *cart.Cache

	closers []func(context.Context) error
}

// Option customizes New.
type Option func(*settings)

type settings struct {
	config     *core.Config
	configOpts []core.Option
	logger     logger.Logger
	logOut     io.Writer
	httpClient *http.Client
	memory     memory.Memory
	notifier   cart.Notifier
	principal  principal.Provider
}

// WithConfig uses cfg as is instead of building one from the environment.
func WithConfig(cfg *core.Config) Option {
	return func(s *settings) { s.config = cfg }
}

// WithConfigOptions applies core options on top of defaults and environment.
func WithConfigOptions(opts ...core.Option) Option {
	return func(s *settings) { s.configOpts = append(s.configOpts, opts...) }
}

// WithLogger replaces the logger built from the logging config.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithLogOutput sets where the built logger writes.
func WithLogOutput(w io.Writer) Option {
	return func(s *settings) { s.logOut = w }
}

// WithHTTPClient replaces the HTTP client of the REST client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) { s.httpClient = hc }
}

// WithSnapshotMemory stores cart snapshots in m regardless of the cart
// snapshot provider in the config.
func WithSnapshotMemory(m memory.Memory) Option {
	return func(s *settings) { s.memory = m }
}

// WithCartNotifier receives the cart events.
func WithCartNotifier(n cart.Notifier) Option {
	return func(s *settings) { s.notifier = n }
}

// WithPrincipal replaces the principal built from the config.
func WithPrincipal(p principal.Provider) Option {
	return func(s *settings) { s.principal = p }
}

// New builds a Store. It connects to Redis when the config asks for Redis
// snapshots but makes no backend request; call Cart.Initialize to load the
// cart.
func New(ctx context.Context, opts ...Option) (*Store, error) {
	var set settings
	for _, opt := range opts {
		opt(&set)
	}

	cfg := set.config
	if cfg == nil {
		var err error
		if cfg, err = core.NewConfig(set.configOpts...); err != nil {
			return nil, err
		}
	} else if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s := &Store{Config: cfg}
	s.Logger = set.logger
	if s.Logger == nil {
		s.Logger = newLogger(cfg, set.logOut)
	}
	s.Logger = s.Logger.WithField("component", cfg.Name)

	if err := s.setupTelemetry(ctx); err != nil {
		return nil, err
	}

	s.Principal = set.principal
	if s.Principal == nil {
		s.Principal = newPrincipal(cfg)
	}

	clientOpts := []api.Option{
		api.WithLogger(s.Logger),
		api.WithTelemetry(s.Telemetry),
		api.WithPrincipal(s.Principal),
		api.WithUserAgent(userAgent(cfg)),
	}
	if set.httpClient != nil {
		clientOpts = append(clientOpts, api.WithHTTPClient(set.httpClient))
	} else {
		clientOpts = append(clientOpts, api.WithHTTPClient(newHTTPClient(cfg)))
	}
	client, err := api.New(cfg.API.BaseURL, clientOpts...)
	if err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	s.API = client
	s.Images = media.NewResolver(cfg.API.AssetOrigin, cfg.API.PlaceholderImage)

	cartOpts := []cart.Option{cart.WithLogger(s.Logger)}
	if set.notifier != nil {
		cartOpts = append(cartOpts, cart.WithNotifier(set.notifier))
	}
	mem := set.memory
	if mem == nil {
		if mem, err = s.snapshotMemory(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
	}
	if mem != nil {
		cartOpts = append(cartOpts, cart.WithSnapshots(cart.NewSnapshotStore(mem, cfg.Cart.KeyPrefix, cfg.Cart.SnapshotTTL)))
	}
	s.Cart = cart.New(client.Carts, s.Principal, cartOpts...)

	s.Logger.Info("storefront client ready",
		"api", cfg.API.BaseURL,
		"snapshots", cfg.Cart.SnapshotProvider,
		"telemetry", cfg.Telemetry.Enabled,
		"version", Version,
	)
	return s, nil
}

func newLogger(cfg *core.Config, out io.Writer) logger.Logger {
	if out == nil {
		out = os.Stderr
		if strings.EqualFold(cfg.Logging.Output, "stdout") {
			out = os.Stdout
		}
	}
	return logger.New(out, logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Pretty: cfg.Development.PrettyLogs,
	})
}

func (s *Store) setupTelemetry(ctx context.Context) error {
	cfg := s.Config.Telemetry
	if !cfg.Enabled {
		s.Telemetry = telemetry.NewNoop()
		return nil
	}
	name := cfg.ServiceName
	if name == "" {
		name = s.Config.Name
	}
	env := "production"
	if s.Config.Development.Enabled {
		env = "development"
	}
	tel, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName:     name,
		ServiceVersion:  Version,
		Environment:     env,
		Exporter:        cfg.Exporter,
		Endpoint:        cfg.Endpoint,
		MetricsEndpoint: cfg.MetricsEndpoint,
		Insecure:        cfg.Insecure,
		SamplingRate:    cfg.SamplingRate,
	})
	if err != nil {
		return &core.StoreError{Op: "storefront.New", Kind: "telemetry", Message: "telemetry setup failed", Err: err}
	}
	s.Telemetry = tel
	s.closers = append(s.closers, tel.Shutdown)
	return nil
}

func newPrincipal(cfg *core.Config) principal.Provider {
	if cfg.Principal.Token != "" {
		return principal.NewJWTProvider(cfg.Principal.Token, cfg.Principal.JWTSecret)
	}
	return principal.NewStatic(cfg.Principal.UserID, cfg.Principal.VendorID)
}

func newHTTPClient(cfg *core.Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.API.MaxIdleConns > 0 {
		transport.MaxIdleConns = cfg.API.MaxIdleConns
		transport.MaxIdleConnsPerHost = cfg.API.MaxIdleConns
	}
	return &http.Client{
		Timeout:   cfg.API.Timeout,
		Transport: otelhttp.NewTransport(transport),
	}
}

func userAgent(cfg *core.Config) string {
	if cfg.API.UserAgent != "" {
		return cfg.API.UserAgent
	}
	return UserAgent()
}

func (s *Store) snapshotMemory(ctx context.Context) (memory.Memory, error) {
	switch s.Config.Cart.SnapshotProvider {
	case core.SnapshotInMemory:
		return memory.NewInMemoryStore(), nil
	case core.SnapshotRedis:
		mem, err := memory.NewRedisMemory(ctx, s.Config.Cart.RedisURL, s.Config.Name)
		if err != nil {
			return nil, &core.StoreError{Op: "storefront.New", Kind: "config", Message: "cart snapshot store unavailable", Err: err}
		}
		s.closers = append(s.closers, func(context.Context) error { return mem.Close() })
		return mem, nil
	}
	return nil, nil
}

// Close flushes telemetry and closes the snapshot store connection.
func (s *Store) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

func (s *Store) catalogOpts() []catalog.Option {
	return []catalog.Option{catalog.WithLogger(s.Logger)}
}

func (s *Store) formOpts(nav forms.Navigator) []forms.Option {
	return []forms.Option{forms.WithLogger(s.Logger), forms.WithNavigator(nav)}
}

// ProductList returns the admin product list.
func (s *Store) ProductList() *catalog.ProductList {
	return catalog.NewProductList(s.API.Products, s.API.Categories, s.API.SubCategories, s.catalogOpts()...)
}

// VendorProducts returns the current vendor's product list.
func (s *Store) VendorProducts() *catalog.VendorProductList {
	return catalog.NewVendorProductList(s.API.Products, s.Principal, s.catalogOpts()...)
}

// CategoryList returns an admin category list controller.
func (s *Store) CategoryList() *catalog.CategoryList {
	return catalog.NewCategoryList(s.API.Categories, s.catalogOpts()...)
}

// SubCategoryList returns an admin sub-category list controller.
func (s *Store) SubCategoryList() *catalog.SubCategoryList {
	return catalog.NewSubCategoryList(s.API.SubCategories, s.catalogOpts()...)
}

// HomeFeed returns the home page rails. Zero limits use the defaults.
func (s *Store) HomeFeed(limits model.HomeLimits) *catalog.HomeFeed {
	return catalog.NewHomeFeed(s.API.Products, s.API.Categories, limits, s.catalogOpts()...)
}

// CategoryForm returns a category form that navigates through nav after saving.
func (s *Store) CategoryForm(nav forms.Navigator) *forms.CategoryForm {
	return forms.NewCategoryForm(s.API.Categories, s.formOpts(nav)...)
}

// SubCategoryForm returns a sub-category form that navigates through nav after saving.
func (s *Store) SubCategoryForm(nav forms.Navigator) *forms.SubCategoryForm {
	return forms.NewSubCategoryForm(s.API.SubCategories, s.API.Categories, s.formOpts(nav)...)
}

// ProductForm returns a product form acting for the configured vendor.
func (s *Store) ProductForm(nav forms.Navigator) *forms.ProductForm {
	return forms.NewProductForm(s.API.Products, s.API.Images, s.API.Categories, s.API.SubCategories, s.Principal, s.formOpts(nav)...)
}

// VendorDashboard returns the current vendor's dashboard, with ratings.
func (s *Store) VendorDashboard() *dashboard.VendorDashboard {
	return dashboard.NewVendorDashboard(s.API.Products, s.API.Orders, s.Principal,
		dashboard.WithLogger(s.Logger), dashboard.WithReviews(s.API.Reviews))
}

// AdminDashboard returns the catalogue summary controller.
func (s *Store) AdminDashboard() *dashboard.AdminDashboard {
	return dashboard.NewAdminDashboard(s.API.Products, s.API.Categories, s.API.SubCategories, dashboard.WithLogger(s.Logger))
}

// PrimaryImage resolves the image to show for p.
func (s *Store) PrimaryImage(p model.Product) string {
	return s.Images.ProductImage(p)
}
