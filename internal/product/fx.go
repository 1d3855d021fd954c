package product

import (
	"github.com/invomate/gstbill/internal/product/repository"
	"github.com/invomate/gstbill/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
