package config

import (
	"fmt"
	"os"
)

func Template() string {
	return defaultTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(defaultTemplate), 0o600)
}

const defaultTemplate = `# hammingctl configuration

# eh8_4 | eh16_11 | eh32_26 | eh64_57
code = "eh16_11"

# per-bit error probability for randomize, in [0, 1]
probability = 0.01

# fixed seed for reproducible masks; remove for a time-seeded source
# seed = 42

# resize | regenerate
mask_policy = "resize"

# trials for sweep
trials = 1000

# trace | debug | info | warn | error | off
# overrides HAMMING_LOG_LEVEL when set
# log_level = "info"
`
