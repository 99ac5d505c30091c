package payment

import (
	"github.com/fitstack/gymdesk/internal/payment/repository"
	"github.com/fitstack/gymdesk/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
