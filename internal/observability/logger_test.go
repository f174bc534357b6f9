package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/danmuck/hamming/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitLoggerTagsOnce(t *testing.T) {
	logging.ConfigureTests()
	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	InitLogger("hammingctl")
	logger := InitLogger("hammingctl")
	logger.Info().Msg("ready")

	line := buf.String()
	if n := strings.Count(line, `"app":"hammingctl"`); n != 1 {
		t.Fatalf("app tag repeated %d times: %s", n, line)
	}
}
