package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/provider"
	"github.com/mrlokans/bookstore/internal/router"
	"github.com/mrlokans/bookstore/internal/services"
)

// openInventory opens the store at dbPath behind a provider. The returned
// provider must be closed by the caller.
func openInventory(dbPath string) (*services.InventoryService, *provider.Provider, error) {
	db, err := database.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}
	p := provider.New(router.Default(), db)
	return services.NewInventoryService(p, ""), p, nil
}

func output(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
