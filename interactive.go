package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	lib "github.com/awused/menubar-color/lib"
	prompt "github.com/c-bata/go-prompt"
	"github.com/urfave/cli/v2"
)

func interactiveCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "Interactive"
	cmd.Usage = "Interactively try menu bar colours, applying each one " +
		"immediately to quickly iterate on your settings"
	cmd.ArgsUsage = "[WALLPAPER]"
	cmd.Flags = []cli.Flag{allDisplaysFlag()}

	cmd.Action = interactiveAction

	return cmd
}

// What the prompt applies on every change
type session struct {
	band      lib.Band
	wallpaper string
	all       bool
}

func interactiveAction(c *cli.Context) error {
	args, all := splitArgs(c)
	wallpaper, err := wallpaperArg(args)
	if err != nil {
		return err
	}

	// Large buffered channel so it doesn't block signals if it's busy
	sigs := make(chan os.Signal, 100)
	promptChan := make(chan struct{}, 1)
	inputChan := make(chan string)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(sigs)

	go func() {
		promptUntilDone(&session{wallpaper: wallpaper, all: all}, inputChan)
		promptChan <- struct{}{}
	}()

	for {
		select {
		case <-promptChan:
			return nil
		case <-sigs:
			// We need to make sure we clean up, so consume sigint
			inputChan <- "exit"
		}
	}
}

func completer(d prompt.Document) []prompt.Suggest {
	s := []prompt.Suggest{
		{Text: "exit", Description: "Exit the program"},
		{Text: "print", Description: "Print the command that reproduces the " +
			"current wallpaper"},
		{Text: "solid", Description: "Apply a solid colour, e.g. solid #CCCCCC"},
		{Text: "gradient", Description: "Apply a gradient, e.g. gradient " +
			"#FF0000 #0000FF"},
		{Text: "wallpaper", Description: "Use a different source wallpaper"},
		{Text: "diagnostic", Description: "Print display and menu bar details"},
	}
	return prompt.FilterHasPrefix(s, d.GetWordBeforeCursor(), true)
}

// Returns false when the input was not understood
func (s *session) execute(in string) (bool, error) {
	fields := strings.Fields(in)
	if len(fields) == 0 {
		return true, nil
	}

	switch fields[0] {
	case "print":
		fmt.Println(s.command())
		return true, nil
	case "diagnostic":
		return true, lib.Diagnostic(
			os.Stdout, env.desktop, env.conf.Geometry, env.logger)
	case "wallpaper", "w":
		if len(fields) != 2 {
			return false, nil
		}
		w, err := filepath.Abs(fields[1])
		if err != nil {
			return true, err
		}
		s.wallpaper = w
	case "solid", "s":
		if len(fields) != 2 {
			return false, nil
		}
		band, err := solidBand(fields[1])
		if err != nil {
			return true, err
		}
		s.band = band
	case "gradient", "g":
		if len(fields) != 3 {
			return false, nil
		}
		band, err := gradientBand(fields[1], fields[2])
		if err != nil {
			return true, err
		}
		s.band = band
	default:
		return false, nil
	}

	if s.band == nil {
		// Only the wallpaper changed and nothing has been drawn yet
		return true, nil
	}
	return true, applyBand(s.band, s.wallpaper, s.all)
}

func (s *session) command() string {
	if s.band == nil {
		return "Nothing applied yet"
	}

	args := append([]string{"menubar-color"}, s.band.Args()...)
	if s.wallpaper != "" {
		args = append(args, fmt.Sprintf("%q", s.wallpaper))
	}
	if s.all {
		args = append(args, "--"+allDisplays)
	}
	// Unquoted # starts a shell comment
	return strings.ReplaceAll(strings.Join(args, " "), "#", `\#`)
}

func promptUntilDone(s *session, inputChan chan string) {
	exit := prompt.OptionAddKeyBind(prompt.KeyBind{
		Key: prompt.ControlC,
		Fn: func(b *prompt.Buffer) {
			inputChan <- "exit"
		},
	})

	for {
		go func() {
			// prompt.Input is blocking, synchronous, and provides no way to abort it
			inputChan <- strings.TrimSpace(prompt.Input("> ", completer, exit))
		}()
		in := <-inputChan
		if in == "exit" {
			return
		}

		ok, err := s.execute(in)
		if err != nil {
			env.logger.Error(err.Error())
		}
		if !ok {
			fmt.Println("Unknown command")
		}
	}
}
