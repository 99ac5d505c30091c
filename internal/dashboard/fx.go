package dashboard

import (
	"github.com/fitstack/gymdesk/internal/dashboard/repository"
	"github.com/fitstack/gymdesk/internal/dashboard/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dashboard.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
