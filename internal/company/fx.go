package company

import (
	"github.com/invomate/gstbill/internal/company/repository"
	"github.com/invomate/gstbill/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
