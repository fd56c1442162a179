// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2020-2021
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE. }}}

// sdrprobe is a minimal driver probe: enumerate the attached devices, make
// one, poke at its configuration, and move samples in either direction.
//
//	sdrprobe --enumerate
//	sdrprobe --args "driver=rtlsdr, serial=00000001" --freq 97.3e6 --rate 2.4e6 --rx --samples 1e6 --output fm.iq
//	sdrprobe --args "driver=hackrf" --freq 433.92e6 --rate 8e6 --tx --input burst.iq
package main

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"hz.tools/rf"
	"hz.tools/sdrplug"

	// Compiled-in drivers register on import; more arrive at runtime
	// through the module loader.
	_ "hz.tools/sdrplug/null"
)

var logger = log.WithPrefix("sdrprobe")

// config is the optional on-disk configuration, read from
// ~/.config/sdrprobe.yaml. Flags beat config, config beats defaults.
type config struct {
	// Args is the default device argument markup.
	Args string `yaml:"args"`

	// ModulePath overrides the driver module search path.
	ModulePath []string `yaml:"module_path"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

func loadConfig() config {
	var cfg config
	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}
	buf, err := os.ReadFile(filepath.Join(home, ".config", "sdrprobe.yaml"))
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		logger.Warn("config file is unreadable", "err", err)
	}
	return cfg
}

func main() {
	var (
		enumerate = pflag.Bool("enumerate", false, "list attached devices and exit")
		args      = pflag.String("args", "", "device argument markup, \"k=v, k=v\"")
		rx        = pflag.Bool("rx", false, "open a receive stream")
		tx        = pflag.Bool("tx", false, "open a transmit stream (bursted)")
		freq      = pflag.Float64("freq", 100e6, "center frequency in Hz")
		rate      = pflag.Float64("rate", 2.4e6, "sample rate in samples per second")
		gain      = pflag.Float64("gain", 30, "overall gain in dB")
		format    = pflag.String("format", sdrplug.FormatCF32, "client sample format")
		samples   = pflag.Float64("samples", 1e6, "samples to move before exiting")
		output    = pflag.String("output", "-", "rx output file, - for stdout")
		input     = pflag.String("input", "-", "tx input file, - for stdin")
		verbose   = pflag.Bool("verbose", false, "debug logging")
	)
	pflag.Parse()

	cfg := loadConfig()
	switch {
	case *verbose:
		log.SetLevel(log.DebugLevel)
	case cfg.LogLevel != "":
		if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
			log.SetLevel(lvl)
		}
	}

	if len(cfg.ModulePath) > 0 {
		for _, dir := range cfg.ModulePath {
			sdrplug.LoadModulesFromDir(dir)
		}
	} else {
		sdrplug.LoadModules()
	}

	markup := *args
	if markup == "" {
		markup = cfg.Args
	}
	kwargs := sdrplug.ParseKwargs(markup)

	if *enumerate {
		for i, found := range sdrplug.Enumerate(kwargs) {
			logger.Info("found device", "index", i, "args", found.String())
		}
		return
	}

	dev, err := sdrplug.Make(kwargs)
	if err != nil {
		logger.Fatal("make failed", "err", err)
	}
	defer func() {
		if err := sdrplug.Unmake(dev); err != nil {
			logger.Error("unmake failed", "err", err)
		}
	}()
	logger.Info("made device",
		"driver", dev.Driver(),
		"hardware", dev.Hardware(),
		"info", dev.HardwareInfo().String(),
	)

	dir := sdrplug.DirectionRx
	if *tx {
		dir = sdrplug.DirectionTx
	}

	if err := dev.SetSampleRate(dir, 0, *rate); err != nil {
		logger.Fatal("set sample rate failed", "rate", *rate, "err", err)
	}
	if err := dev.SetFrequency(dir, 0, rf.Hz(*freq), nil); err != nil {
		logger.Fatal("set frequency failed", "freq", *freq, "err", err)
	}
	if err := dev.SetGain(dir, 0, *gain); err != nil {
		logger.Warn("set gain failed", "gain", *gain, "err", err)
	}

	sf, err := sdrplug.ParseSampleFormat(*format)
	if err != nil {
		logger.Fatal("bad sample format", "format", *format, "err", err)
	}

	stream, err := dev.SetupStream(dir, *format, []int{0}, kwargs)
	if err != nil {
		logger.Fatal("stream setup failed", "err", err)
	}
	defer func() {
		if err := stream.Close(); err != nil {
			logger.Error("stream close failed", "err", err)
		}
	}()

	switch dir {
	case sdrplug.DirectionRx:
		runRx(stream, sf, uint(*rate), int64(*samples), *output)
	case sdrplug.DirectionTx:
		runTx(stream, sf, uint(*rate), *input)
	}
}

func runRx(stream *sdrplug.Stream, sf sdrplug.SampleFormat, rate uint, want int64, output string) {
	out := io.Writer(os.Stdout)
	if output != "-" {
		fh, err := os.Create(output)
		if err != nil {
			logger.Fatal("output unwritable", "path", output, "err", err)
		}
		defer fh.Close()
		out = fh
	}

	if err := stream.Activate(0, 0, 0); err != nil {
		logger.Fatal("activate failed", "err", err)
	}
	defer stream.Deactivate(0, 0)

	var (
		sink    = sdrplug.ByteWriter(out, rate, sf)
		buf, _  = sdrplug.MakeSamples(sf, stream.MTU())
		moved   int64
		dropped int
	)
	for moved < want {
		n, _, _, err := stream.Read(buf, time.Second)
		switch err {
		case nil:
		case sdrplug.ErrOverflow:
			dropped++
			continue
		case sdrplug.ErrTimeout:
			logger.Warn("read timed out")
			continue
		default:
			logger.Fatal("read failed", "err", err)
		}
		if _, err := sink.Write(buf.Slice(0, n)); err != nil {
			logger.Fatal("write to output failed", "err", err)
		}
		moved += int64(n)
	}
	logger.Info("done", "samples", moved, "overflows", dropped)
}

func runTx(stream *sdrplug.Stream, sf sdrplug.SampleFormat, rate uint, input string) {
	in := io.Reader(os.Stdin)
	if input != "-" {
		fh, err := os.Open(input)
		if err != nil {
			logger.Fatal("input unreadable", "path", input, "err", err)
		}
		defer fh.Close()
		in = fh
	}

	if err := stream.Activate(0, 0, 0); err != nil {
		logger.Fatal("activate failed", "err", err)
	}
	defer stream.Deactivate(0, 0)

	var (
		source = sdrplug.ByteReader(in, rate, sf)
		buf, _ = sdrplug.MakeSamples(sf, stream.MTU())
		moved  int64
	)
	for {
		n, err := source.Read(buf)
		if n == 0 {
			break
		} else if err != nil && err != io.EOF {
			logger.Fatal("read from input failed", "err", err)
		}

		flags := sdrplug.StreamFlags(0)
		if err == io.EOF || n < buf.Length() {
			flags |= sdrplug.FlagEndBurst
		}
		w, werr := stream.Write(buf.Slice(0, n), flags, 0, time.Second)
		if werr != nil {
			logger.Fatal("write failed", "err", werr)
		}
		moved += int64(w)

		if flags&sdrplug.FlagEndBurst != 0 {
			break
		}
	}

	if err := stream.ReadStatus(time.Second); err == sdrplug.ErrUnderflow {
		logger.Warn("transmit underflowed")
	}
	logger.Info("done", "samples", moved)
}

// vim: foldmethod=marker
