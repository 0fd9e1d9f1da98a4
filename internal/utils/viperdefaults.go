package utils

import (
	"time"

	"github.com/spf13/viper"
)

// Set the viper defaults for the minstrel platform layer.
// For use in the cmd binaries, as well as anything exercising the
// config-driven paths (device format hints, buffer sizing, resampler
// quality).
func SetViperDefaults() {
	viper.SetDefault("loglevel", "info")
	viper.SetDefault("logfile", "")
	viper.SetDefault("defaultsamplerate", 48000)
	viper.SetDefault("defaultchannels", 2)
	viper.SetDefault("bufferduration", 20*time.Millisecond)
	viper.SetDefault("resamplequality", 10)

	// Hosts can hint the hardware format through the environment,
	// without a config file.
	viper.BindEnv("defaultsamplerate", "AUDIO_FREQUENCY")
	viper.BindEnv("defaultchannels", "AUDIO_CHANNELS")
}
