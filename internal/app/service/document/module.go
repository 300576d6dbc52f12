package document

import "go.uber.org/fx"

// Module exposes the document service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
