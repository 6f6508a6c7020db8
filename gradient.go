package main

import (
	lib "github.com/awused/menubar-color/lib"
	"github.com/urfave/cli/v2"
)

func gradientCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "Gradient"
	cmd.Usage = "Adds a gradient rectangle to create a custom menu bar gradient"
	cmd.ArgsUsage = "START_COLOR END_COLOR [WALLPAPER]"
	cmd.Description = "Colours are HEX strings such as #FF0000. The gradient " +
		"runs from left to right. Without WALLPAPER the current wallpaper of " +
		"each display is used."
	cmd.Flags = []cli.Flag{allDisplaysFlag()}

	cmd.Action = gradientAction

	return cmd
}

func gradientAction(c *cli.Context) error {
	args, all := splitArgs(c)
	if len(args) < 2 || len(args) > 3 {
		return usageErr(c, "Expected two colours and an optional wallpaper")
	}

	band, err := gradientBand(args[0], args[1])
	if err != nil {
		return usageErr(c, err.Error())
	}

	wallpaper, err := wallpaperArg(args[2:])
	if err != nil {
		return err
	}

	return applyBand(band, wallpaper, all)
}

func gradientBand(start, end string) (lib.Band, error) {
	colors, err := parseColors(start, end)
	if err != nil {
		return nil, err
	}
	return lib.Gradient{Start: colors[0].Color, End: colors[1].Color}, nil
}
