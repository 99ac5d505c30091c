package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock supplies the current time. Validity computations must never call
// time.Now directly so tests can pin "now".
type Clock interface {
	Now() time.Time
}

var Module = fx.Module("clock",
	fx.Provide(NewSystemClock),
)

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
