package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"unicode/utf16"

	"github.com/spf13/viper"

	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/internal/hostapi"
	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/internal/utils"
	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/pkg/platform"
)

func wideToString(units []uint16) string {
	end := 0
	for end < len(units) && units[end] != 0 {
		end++
	}
	return string(utf16.Decode(units[:end]))
}

func roleName(role platform.DeviceRole) string {
	switch role {
	case platform.RoleGlobalDefault:
		return "global default"
	case platform.RoleDefault:
		return "default"
	}
	return "not default"
}

func main() {
	configFilePath := flag.String("config", "./config.yaml", "Path to config file")
	flag.Parse()

	utils.SetViperDefaults()
	viper.SetConfigFile(*configFilePath)
	if err := viper.ReadInConfig(); err != nil {
		slog.Info("no config file found", "configFilePath", *configFilePath)
	}

	logFilePointer, err := utils.ConfigureDefaultLogger(
		viper.GetString("loglevel"),
		viper.GetString("logfile"),
		slog.HandlerOptions{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not configure logger: %v\n", err)
		os.Exit(1)
	}
	if logFilePointer != nil {
		defer logFilePointer.Close()
	}

	ctx := platform.NewContext(hostapi.NewOtoAPI())
	ctx.AddRef()
	defer ctx.Release()

	count := ctx.DeviceCount()
	fmt.Printf("%d output device(s)\n", count)
	for i := uint32(0); i < count; i++ {
		details := ctx.DeviceDetails(i)
		fmt.Printf(
			"[%d] %s (%s, %d Hz, %d channels)\n",
			i,
			wideToString(details.DisplayName[:]),
			roleName(details.Role),
			details.OutputFormat.SampleRate,
			details.OutputFormat.Channels,
		)
	}
}
