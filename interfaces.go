package storefront

import (
	"github.com/theAriful7/storefront/core"
	"github.com/theAriful7/storefront/pkg/cart"
	"github.com/theAriful7/storefront/pkg/catalog"
	"github.com/theAriful7/storefront/pkg/forms"
	"github.com/theAriful7/storefront/pkg/logger"
	"github.com/theAriful7/storefront/pkg/memory"
	"github.com/theAriful7/storefront/pkg/principal"
	"github.com/theAriful7/storefront/pkg/telemetry"
)

// Type aliases so callers can depend on the root package alone
type Config = core.Config
type Logger = logger.Logger
type Memory = memory.Memory
type Principal = principal.Provider
type Telemetry = telemetry.Telemetry
type Navigator = forms.Navigator
type Confirmer = catalog.Confirmer
type Notifier = cart.Notifier
type StoreError = core.StoreError

// Re-exported sentinels
var (
	ErrNotFound       = core.ErrNotFound
	ErrConflict       = core.ErrConflict
	ErrValidation     = core.ErrValidation
	ErrNoCart         = core.ErrNoCart
	ErrCanceledByUser = core.ErrCanceledByUser
	ErrNoPrincipal    = core.ErrNoPrincipal
)
