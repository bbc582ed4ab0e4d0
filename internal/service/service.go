package service

import (
	"venues-go/internal/biz"

	"github.com/google/wire"
)

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(
	NewVenueService,
	NewRemoteMap,
	wire.Bind(new(biz.MapWidgetFactory), new(*RemoteMap)),
)
