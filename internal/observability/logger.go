package observability

import (
	"sync"

	"github.com/danmuck/hamming/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var tagOnce sync.Once

// InitLogger configures the runtime logger and tags it with the app name.
// Only the first call tags the logger; later calls return it unchanged.
func InitLogger(app string) zerolog.Logger {
	logging.ConfigureRuntime()
	tagOnce.Do(func() {
		log.Logger = log.Logger.With().Str("app", app).Logger()
	})
	return log.Logger
}
