package main

import (
	lib "github.com/awused/menubar-color/lib"
	"github.com/urfave/cli/v2"
)

func solidColorCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "SolidColor"
	cmd.Usage = "Adds a solid colour rectangle to create a custom menu bar colour"
	cmd.ArgsUsage = "COLOR [WALLPAPER]"
	cmd.Description = "COLOR is a HEX colour such as #CCCCCC. Without WALLPAPER " +
		"the current wallpaper of each display is used."
	cmd.Flags = []cli.Flag{allDisplaysFlag()}

	cmd.Action = solidColorAction

	return cmd
}

func solidColorAction(c *cli.Context) error {
	args, all := splitArgs(c)
	if len(args) == 0 || len(args) > 2 {
		return usageErr(c, "Expected a colour and an optional wallpaper")
	}

	colors, err := parseColors(args[0])
	if err != nil {
		return usageErr(c, err.Error())
	}

	wallpaper, err := wallpaperArg(args[1:])
	if err != nil {
		return err
	}

	return applyBand(colors[0], wallpaper, all)
}

// Used by the interactive prompt, which has no cli.Context
func solidBand(color string) (lib.Band, error) {
	colors, err := parseColors(color)
	if err != nil {
		return nil, err
	}
	return colors[0], nil
}
