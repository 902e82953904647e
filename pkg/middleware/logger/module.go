package logger

import "go.uber.org/fx"

// Module provides the access-log middleware and the process logger.
var Module = fx.Options(
	fx.Provide(ProvideLoggerMiddleware),
	fx.Provide(ProvideLogger),
)
