// seehuhn.de/go/revector - a 2D vector graphics engine
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Command revector-render renders a YAML scene file to a PNG image.
//
// Usage:
//
//	revector-render [-config engine.toml] [-o out.png] scene.yaml
//
// The image size is taken from the scene file. If the scene file does not
// give a size, the surface section of the configuration file is used.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"seehuhn.de/go/revector"
	"seehuhn.de/go/revector/sceneio"
	"seehuhn.de/go/revector/surface"
)

func main() {
	configFile := flag.String("config", "", "engine configuration file (TOML)")
	outFile := flag.String("o", "", "output file (default: scene name with .png)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [options] scene.yaml\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *configFile, flag.Arg(0), *outFile); err != nil {
		fmt.Fprintln(os.Stderr, "revector-render:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile, sceneFile, outFile string) error {
	cfg := &revector.Config{}
	if configFile != "" {
		var err error
		cfg, err = revector.LoadConfig(configFile)
		if err != nil {
			return err
		}
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	revector.SetLogger(logger)

	file, err := sceneio.Load(sceneFile)
	if err != nil {
		return err
	}
	sc, _, err := file.Build()
	if err != nil {
		return fmt.Errorf("%s: %w", sceneFile, err)
	}
	background, hasBackground, err := file.BackgroundColor()
	if err != nil {
		return fmt.Errorf("%s: %w", sceneFile, err)
	}

	width, height := file.Width, file.Height
	if width == 0 || height == 0 {
		width, height = cfg.Surface.Width, cfg.Surface.Height
	}
	format := surface.RGBA8Premul
	if cfg.Surface.Format != "" {
		format, err = surface.ParseFormat(cfg.Surface.Format)
		if err != nil {
			return err
		}
	}

	opts := cfg.Options()
	if file.Tolerance > 0 {
		opts = append(opts, revector.WithTolerance(file.Tolerance))
	}
	engine := revector.New(opts...)
	defer engine.Close()

	if err := engine.SurfaceChanged(width, height, format); err != nil {
		return err
	}
	dst, err := surface.New(width, height, format)
	if err != nil {
		return err
	}
	var frameOpts []revector.FrameOption
	if hasBackground {
		frameOpts = append(frameOpts, revector.WithClear(background))
	}
	if err := engine.RenderFrame(ctx, sc, dst, frameOpts...); err != nil {
		return err
	}
	stats := engine.Stats()
	logger.Info("rendered",
		"scene", sceneFile,
		"nodes", stats.Nodes,
		"drawn", stats.Drawn,
		"duration", stats.Duration)

	if outFile == "" {
		outFile = strings.TrimSuffix(sceneFile, ".yaml") + ".png"
	}
	out, err := os.Create(outFile)
	if err != nil {
		return err
	}
	err = png.Encode(out, dst.Image())
	return errors.Join(err, out.Close())
}
