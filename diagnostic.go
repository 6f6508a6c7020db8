package main

import (
	lib "github.com/awused/menubar-color/lib"
	"github.com/urfave/cli/v2"
)

func diagnosticCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "Diagnostic"
	cmd.Usage = "Display detailed information about connected displays and " +
		"menu bar sizing"

	cmd.Action = func(c *cli.Context) error {
		return lib.Diagnostic(
			c.App.Writer, env.desktop, env.conf.Geometry, env.logger)
	}

	return cmd
}
