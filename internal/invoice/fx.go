package invoice

import (
	"github.com/invomate/gstbill/internal/invoice/repository"
	"github.com/invomate/gstbill/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
