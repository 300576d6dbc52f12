package approval

import "go.uber.org/fx"

// Module exposes the approval workflow engine via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
