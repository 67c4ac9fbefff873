package tier

import "go.uber.org/fx"

// Module exposes the tier resolver via Fx.
var Module = fx.Options(
	fx.Provide(NewResolver),
)
