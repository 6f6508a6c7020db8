package main

import (
	"errors"
	"fmt"
	"path/filepath"

	lib "github.com/awused/menubar-color/lib"
	"github.com/urfave/cli/v2"
)

const allDisplays = "all-displays"

func allDisplaysFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  allDisplays,
		Usage: "Set the wallpaper for all displays, not just the main display",
	}
}

// splitArgs separates positional arguments from a trailing --all-displays,
// which the flag parser leaves alone once it has seen an argument.
func splitArgs(c *cli.Context) ([]string, bool) {
	all := c.Bool(allDisplays)
	args := []string{}

	for _, a := range c.Args().Slice() {
		if a == "--"+allDisplays {
			all = true
			continue
		}
		args = append(args, a)
	}
	return args, all
}

func parseColors(names ...string) ([]lib.Solid, error) {
	out := make([]lib.Solid, len(names))
	for i, n := range names {
		c, err := lib.ParseHexColor(n)
		if err != nil {
			return nil, err
		}
		out[i] = lib.Solid{Color: c}
	}
	return out, nil
}

// An empty result means the current wallpaper of each display
func wallpaperArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	return filepath.Abs(args[0])
}

func usageErr(c *cli.Context, msg string) error {
	return cli.Exit(fmt.Sprintf("%s\nUsage: %s %s",
		msg, c.Command.Name, c.Command.ArgsUsage), 1)
}

// applyBand runs the full pipeline with a fresh output so files from earlier
// calls in the same process are pruned too.
func applyBand(band lib.Band, wallpaper string, all bool) error {
	dir, err := lib.WorkingDirectory(env.conf)
	if err != nil {
		return err
	}

	r := &lib.Runner{
		Desktop: env.desktop,
		Output:  lib.NewOutput(dir, env.conf.JPEGQuality, env.logger),
		Config:  env.conf,
		Logger:  env.logger,
	}

	res, err := r.Run(band, wallpaper, all)
	if err != nil {
		return err
	}

	if res.Failed > 0 && res.Failed == res.Processed {
		return errors.New("Could not set the wallpaper on any display")
	}
	return nil
}
