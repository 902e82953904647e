package logger

import "go.uber.org/zap"

func ProvideLoggerMiddleware() *Middleware { return &Middleware{} }

// ProvideLogger is the process-wide logger; per-concern files (access,
// denials) are created with NewLog directly.
func ProvideLogger() *zap.Logger { return NewLog("wardcore.log") }
