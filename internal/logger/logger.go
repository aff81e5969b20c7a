package logger

import "go.uber.org/zap"

// Provide returns a production-ready zap logger for the application.
// Set ADMIN_DEV_LOG=1 for human-readable development output.
func Provide(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
