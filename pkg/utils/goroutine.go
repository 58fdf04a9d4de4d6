package utils

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang-finance-insight/pkg/logger"
)

// GoSafe runs fn in a goroutine, logging and recovering any panic.
func GoSafe(log *logger.Logger, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Recovered from panic in goroutine",
					logger.StringField("panic", fmt.Sprint(r)),
					logger.StringField("stack", string(debug.Stack())))
			}
		}()
		fn()
	}()
}

// ShouldContinue reports false once ctx is done.
func ShouldContinue(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	default:
		return true
	}
}
