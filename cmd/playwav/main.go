package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/viper"

	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/internal/hostapi"
	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/internal/utils"
	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/pkg/platform"
	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/pkg/resample"
	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/pkg/wavsource"
)

// playbackRenderer feeds the wav source to the device, converting the
// sample rate on the fly when the hardware granted a different rate
// than the file was recorded at.
type playbackRenderer struct {
	src *wavsource.Source
	rs  *resample.Resampler
	in  []float32
}

// Convert inserts a rate converter between the source and the device.
// Must be called before the engine is activated; the bridge does not
// touch the renderer while the engine is inactive.
func (r *playbackRenderer) Convert(inRate, outRate, channels int) {
	r.rs = resample.New(channels, inRate, outRate)
	r.in = make([]float32, 1024*channels)
}

func (r *playbackRenderer) Render(out []float32) {
	if r.rs == nil {
		r.src.Render(out)
		return
	}

	n := r.rs.Pull(out)
	// Bounded refills: conversion latency may leave the first buffers
	// partly silent, which is preferable to stalling the clock.
	for tries := 0; n < len(out) && tries < 8; tries++ {
		r.src.Render(r.in)
		r.rs.Push(r.in)
		n += r.rs.Pull(out[n:])
	}
}

func main() {
	configFilePath := flag.String("config", "./config.yaml", "Path to config file")
	file := flag.String("file", "./assets/media.wav", "WAV file path")
	loop := flag.Bool("loop", false, "Loop playback until interrupted")
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

	src, err := wavsource.NewFileSource(*file, *loop)
	if err != nil {
		slog.Error("could not load wav file", "file", *file, "err", err)
		os.Exit(1)
	}
	defer src.Close()

	ctx := platform.NewContext(hostapi.NewOtoAPI())
	ctx.AddRef()
	defer ctx.Release()

	render := &playbackRenderer{src: src}
	engine := platform.NewEngine(render, src.SampleRate(), src.Channels())
	if err := ctx.Open(engine, 0); err != nil {
		slog.Error("could not open output device", "err", err)
		os.Exit(1)
	}
	defer ctx.Close(engine)

	if engine.SampleRate != src.SampleRate() {
		slog.Info(
			"device rate differs from file, converting",
			"fileRate", src.SampleRate(),
			"deviceRate", engine.SampleRate,
		)
		render.Convert(src.SampleRate(), engine.SampleRate, src.Channels())
	}

	engine.SetActive(true)
	fmt.Printf("Playing %s\n", *file)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	if *loop {
		<-interrupt
	} else {
		select {
		case <-interrupt:
		case <-time.After(src.Duration() + 500*time.Millisecond):
		}
	}

	engine.SetActive(false)
}
