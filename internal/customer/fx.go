package customer

import (
	"github.com/invomate/gstbill/internal/customer/repository"
	"github.com/invomate/gstbill/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
