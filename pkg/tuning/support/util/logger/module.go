package logger

import "go.uber.org/fx"

// Module routes Fx lifecycle events through this logger.
var Module = fx.Options(
	fx.WithLogger(NewFxLoggerAdapter),
)
