package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/fitstack/gymdesk/internal/clock"
	"github.com/fitstack/gymdesk/internal/config"
	"github.com/fitstack/gymdesk/internal/migration"
	"github.com/fitstack/gymdesk/internal/observability"
	"github.com/fitstack/gymdesk/internal/server"
	"github.com/fitstack/gymdesk/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
