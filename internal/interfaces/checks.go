package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/http"
	"github.com/mrlokans/bookstore/internal/notify"
	"github.com/mrlokans/bookstore/internal/provider"
	"github.com/mrlokans/bookstore/internal/scheduler"
	"github.com/mrlokans/bookstore/internal/services"
	"github.com/mrlokans/bookstore/internal/tasks"
)

// =============================================================================
// Storage Engine
// =============================================================================

var _ provider.Store = (*database.Database)(nil)
var _ http.Pinger = (*database.Database)(nil)
var _ scheduler.Optimizer = (*database.Database)(nil)

// =============================================================================
// Provider Facade
// =============================================================================

var _ services.BookProvider = (*provider.Provider)(nil)
var _ http.ResourceKinder = (*provider.Provider)(nil)

// =============================================================================
// Change Notification
// =============================================================================

var _ provider.ChangeNotifier = (*notify.Hub)(nil)
var _ provider.ChangeNotifier = provider.NotifierFunc(nil)

// =============================================================================
// Background Maintenance
// =============================================================================

var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ tasks.Maintainer = (*scheduler.MaintenanceScheduler)(nil)
