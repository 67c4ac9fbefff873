package gift

import "go.uber.org/fx"

// Module exposes the gift certificate service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
