package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/invomate/gstbill/internal/config"
	"github.com/invomate/gstbill/internal/logger"
	"github.com/invomate/gstbill/internal/migration"
	"github.com/invomate/gstbill/internal/seed"
	"github.com/invomate/gstbill/internal/server"
	"github.com/invomate/gstbill/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,
		server.Module,
		seed.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
