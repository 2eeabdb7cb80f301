package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/paltattoo/paltattoo-backend/internal/logger"
)

// SafeGo lanza una goroutine con recuperación de pánico. El nombre
// identifica la tarea en los logs.
func SafeGo(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.WithFields(map[string]interface{}{
					"task":  name,
					"panic": r,
					"stack": string(debug.Stack()),
				}).Error("pánico recuperado en goroutine")
			}
		}()
		fn()
	}()
}

// SafeGoWithContext igual que SafeGo pero propagando un contexto.
func SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.WithFields(map[string]interface{}{
					"task":  name,
					"panic": r,
					"stack": string(debug.Stack()),
				}).Error("pánico recuperado en goroutine")
			}
		}()
		fn(ctx)
	}()
}
