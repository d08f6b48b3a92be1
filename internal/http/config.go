package http

import (
	"github.com/mrlokans/bookstore/internal/notify"
	"github.com/mrlokans/bookstore/internal/services"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Inventory *services.InventoryService
	Kinds     ResourceKinder
	Database  Pinger

	// Change stream; the events endpoint is not mounted without it.
	Hub *notify.Hub

	// Application info
	Version string
}
