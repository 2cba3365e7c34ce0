//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"

	"github.com/tair/smart-inventory/internal/inventory/delivery/http"
	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/internal/inventory/ledger"
	"github.com/tair/smart-inventory/internal/inventory/metrics"
	"github.com/tair/smart-inventory/internal/inventory/usecase/command"
	"github.com/tair/smart-inventory/internal/inventory/usecase/query"
)

// Wire sets
var CommandHandlerSet = wire.NewSet(
	ledger.NewEngine,
	command.NewCreateItemHandler,
	command.NewDeactivateItemHandler,
	command.NewCreateOrderHandler,
	command.NewCancelOrderHandler,
	command.NewUpdateOrderStatusHandler,
	command.NewRecordTransactionHandler,
	command.NewGenerateAlertsHandler,
	command.NewAlertStatusHandler,
	command.NewResolveAlertHandler,
	command.NewIgnoreAlertHandler,
	wire.Struct(new(http.CommandHandlers), "*"),
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetItemHandler,
	query.NewListItemsHandler,
	query.NewGetOrderHandler,
	query.NewListOrdersHandler,
	query.NewListTransactionsHandler,
	query.NewGetAlertHandler,
	query.NewListAlertsHandler,
	query.NewGetAlertStatsHandler,
	wire.Struct(new(http.QueryHandlers), "*"),
)

var AllHandlersSet = wire.NewSet(
	CommandHandlerSet,
	QueryHandlerSet,
	http.NewInventoryHandler,
)

// InitializeService initializes the inventory service with all dependencies
func InitializeService(
	uow domain.UnitOfWork,
	publisher domain.EventPublisher,
	clock domain.Clock,
	m *metrics.Metrics,
	authenticator *http.Authenticator,
) (*Service, error) {
	wire.Build(
		AllHandlersSet,
		wire.Struct(new(Service), "*"),
	)
	return nil, nil
}
