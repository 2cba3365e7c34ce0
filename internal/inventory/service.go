package inventory

import (
	"github.com/tair/smart-inventory/internal/inventory/delivery/http"
)

// Service is the assembled inventory application
type Service struct {
	Handler  *http.InventoryHandler
	Commands http.CommandHandlers
}
