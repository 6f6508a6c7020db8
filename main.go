package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/awused/menubar-color/handler/console"
	lib "github.com/awused/menubar-color/lib"
	slogmulti "github.com/samber/slog-multi"
	"github.com/urfave/cli/v2"
)

const version = "2.0.0"

const verbose = "verbose"
const configFlag = "config"

// Set up by beforeFunc, shared by every command
type environment struct {
	conf    *lib.Config
	logger  *slog.Logger
	desktop lib.Desktop
	logFile *os.File
}

var env environment

func main() {
	lib.AttachParentConsole()

	app := cli.NewApp()
	app.Name = "menubar-color"
	app.Usage = "Create a wallpaper that gives the menu bar a custom colour"
	app.Description = "Draws a solid colour or gradient band over the part of " +
		"the wallpaper covered by the menu bar, then sets the result as the " +
		"wallpaper of each display. Displays with a notch are detected and " +
		"get a taller band."
	app.Version = version
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  verbose,
			Usage: "Print debug output",
		},
		&cli.StringFlag{
			Name:  configFlag,
			Usage: "Path to a TOML config file",
		},
	}
	app.Before = beforeFunc
	app.After = afterFunc
	app.Commands = []*cli.Command{
		solidColorCommand(),
		gradientCommand(),
		diagnosticCommand(),
		interactiveCommand(),
	}

	err := app.Run(os.Args)
	if err != nil {
		if env.logger != nil {
			env.logger.Error(err.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		_ = lib.Cleanup()
		os.Exit(1)
	}
}

func beforeFunc(c *cli.Context) error {
	logger := newLogger(c.Bool(verbose), nil)

	conf, err := lib.LoadConfig(c.String(configFlag), logger)
	if err != nil {
		return err
	}

	if conf.LogFile != "" {
		f, err := os.OpenFile(
			conf.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("Error opening log file: %w", err)
		}
		env.logFile = f
		logger = newLogger(c.Bool(verbose), f)
	}

	env.conf = conf
	env.logger = logger
	env.desktop = lib.NewDesktop(logger)
	return nil
}

func afterFunc(c *cli.Context) error {
	if env.logFile != nil {
		_ = env.logFile.Close()
	}
	return lib.Cleanup()
}

// Console output honours --verbose, the log file always receives everything
func newLogger(debug bool, logFile io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	h := console.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level}))
	if logFile != nil {
		h = slogmulti.Fanout(h, slog.NewJSONHandler(
			logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(h)
}
