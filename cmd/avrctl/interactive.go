package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"github.com/avr-protocol/avr-go/pkg/avr"
	"github.com/avr-protocol/avr-go/pkg/config"
	"github.com/avr-protocol/avr-go/pkg/poller"
)

// shell is the interactive command loop. The device engine is single
// conversation at a time, so the shell serializes its own commands and
// the watch poller behind one mutex.
type shell struct {
	mu     sync.Mutex
	device *avr.Device
	cfg    config.Config
	watch  *poller.Poller
	rl     *readline.Instance
}

func newShell(device *avr.Device, cfg config.Config) (*shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "avr> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	s := &shell{
		device: device,
		cfg:    cfg,
		rl:     rl,
	}

	interval := time.Duration(cfg.PollInterval)
	s.watch = poller.New(serializedRefresher{s}, poller.Config{
		Interval: interval,
		OnRefresh: func(err error) {
			if err != nil {
				slog.Warn("refresh failed", "error", err)
			}
		},
	})
	return s, nil
}

// serializedRefresher routes poller refreshes through the shell mutex
// so they never overlap a prompt command.
type serializedRefresher struct {
	s *shell
}

func (r serializedRefresher) Refresh(ctx context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.device.Refresh(ctx)
}

func (s *shell) Close() {
	if s.watch.Running() {
		_ = s.watch.Stop()
	}
	_ = s.rl.Close()
}

// Stdout returns a writer coordinated with the readline prompt.
func (s *shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run processes prompt commands until quit, EOF or context cancel.
func (s *shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return
				}
				continue
			}
			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		command := strings.ToLower(fields[0])
		args := fields[1:]

		switch command {
		case "help", "?":
			s.printHelp()
		case "status", "st":
			s.cmdStatus(ctx)
		case "refresh":
			s.cmdRefresh(ctx)
		case "on":
			s.run(ctx, "power on", s.device.PowerOn)
		case "off":
			s.run(ctx, "power off", s.device.PowerOff)
		case "vol", "v":
			s.cmdVolume(ctx, args)
		case "mute":
			s.cmdMute(ctx, args)
		case "source", "src":
			s.cmdSource(ctx, args)
		case "sources":
			s.cmdSources()
		case "mode":
			s.cmdMode(ctx, args)
		case "modes":
			s.cmdModes()
		case "watch":
			s.cmdWatch(ctx, args)
		case "quit", "exit", "q":
			return
		default:
			fmt.Fprintf(s.Stdout(), "unknown command %q, try 'help'\n", command)
		}
	}
}

func (s *shell) printHelp() {
	fmt.Fprint(s.Stdout(), `Commands:
  status, st            Query the receiver and show its state
  refresh               Same as status, without the printout
  on                    Power the receiver on
  off                   Put the receiver into standby
  vol <0-100|up|down>   Set or step the volume
  mute <on|off>         Mute or unmute
  source <name>         Select an input source
  sources               List selectable sources
  mode <name>           Select a speaker sound mode
  modes                 List sound modes
  watch <start|stop>    Poll the receiver in the background
  quit, exit            Leave the shell
`)
}

// run executes one device operation under the shell mutex.
func (s *shell) run(ctx context.Context, what string, op func(context.Context) error) {
	s.mu.Lock()
	err := op(ctx)
	s.mu.Unlock()
	if err != nil {
		fmt.Fprintf(s.Stdout(), "%s failed: %v\n", what, err)
	}
}

func (s *shell) cmdStatus(ctx context.Context) {
	s.cmdRefresh(ctx)

	state := s.device.State()
	out := s.Stdout()
	fmt.Fprintf(out, "%s (%s:%d)\n", s.cfg.Name, s.cfg.Host, s.cfg.Port)
	fmt.Fprintf(out, "  power:   %s\n", state.Power)
	fmt.Fprintf(out, "  volume:  %s\n", renderVolume(state))
	fmt.Fprintf(out, "  mute:    %s\n", renderMute(state))
	fmt.Fprintf(out, "  source:  %s\n", renderSource(state))
	fmt.Fprintf(out, "  mode:    %s\n", orUnknown(state.SoundModeName()))
}

func (s *shell) cmdRefresh(ctx context.Context) {
	s.mu.Lock()
	err := s.device.Refresh(ctx)
	s.mu.Unlock()
	if err != nil {
		fmt.Fprintf(s.Stdout(), "refresh failed: %v\n", err)
	}
}

func (s *shell) cmdVolume(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.Stdout(), "usage: vol <0-100|up|down>")
		return
	}

	switch args[0] {
	case "up":
		s.run(ctx, "volume up", s.device.VolumeUp)
	case "down":
		s.run(ctx, "volume down", s.device.VolumeDown)
	default:
		percent, err := strconv.Atoi(args[0])
		if err != nil || percent < 0 || percent > 100 {
			fmt.Fprintln(s.Stdout(), "usage: vol <0-100|up|down>")
			return
		}
		s.run(ctx, "set volume", func(ctx context.Context) error {
			return s.device.SetVolume(ctx, float64(percent)/100)
		})
	}
}

func (s *shell) cmdMute(ctx context.Context, args []string) {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		fmt.Fprintln(s.Stdout(), "usage: mute <on|off>")
		return
	}
	mute := args[0] == "on"
	s.run(ctx, "set mute", func(ctx context.Context) error {
		return s.device.SetMute(ctx, mute)
	})
}

func (s *shell) cmdSource(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.Stdout(), "usage: source <name>")
		return
	}
	// Source names may contain spaces ("BD PLAYER").
	name := strings.Join(args, " ")
	s.run(ctx, "select source", func(ctx context.Context) error {
		return s.device.SelectSource(ctx, name)
	})
}

func (s *shell) cmdSources() {
	names := s.device.SourceList()
	if len(names) == 0 {
		fmt.Fprintln(s.Stdout(), "no sources known yet, run 'status' first")
		return
	}
	for _, name := range names {
		fmt.Fprintf(s.Stdout(), "  %s\n", name)
	}
}

func (s *shell) cmdMode(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.Stdout(), "usage: mode <name>")
		return
	}
	name := strings.Join(args, " ")
	s.run(ctx, "select sound mode", func(ctx context.Context) error {
		return s.device.SelectSoundMode(ctx, name)
	})
}

func (s *shell) cmdModes() {
	for _, name := range s.device.SoundModeList() {
		fmt.Fprintf(s.Stdout(), "  %s\n", name)
	}
}

func (s *shell) cmdWatch(ctx context.Context, args []string) {
	if len(args) != 1 || (args[0] != "start" && args[0] != "stop") {
		fmt.Fprintln(s.Stdout(), "usage: watch <start|stop>")
		return
	}

	switch args[0] {
	case "start":
		if err := s.watch.Start(ctx); err != nil {
			fmt.Fprintf(s.Stdout(), "watch: %v\n", err)
			return
		}
		fmt.Fprintf(s.Stdout(), "watching every %s\n", time.Duration(s.cfg.PollInterval))
	case "stop":
		if err := s.watch.Stop(); err != nil {
			fmt.Fprintf(s.Stdout(), "watch: %v\n", err)
			return
		}
		fmt.Fprintln(s.Stdout(), "watch stopped")
	}
}

func renderVolume(state avr.State) string {
	if state.Volume == nil {
		return "unknown"
	}
	return fmt.Sprintf("%d%%", int(*state.Volume*100+0.5))
}

func renderMute(state avr.State) string {
	if state.Muted == nil {
		return "unknown"
	}
	if *state.Muted {
		return "on"
	}
	return "off"
}

func renderSource(state avr.State) string {
	if state.SourceID == "" {
		return "unknown"
	}
	if state.SourceName == "" {
		return state.SourceID
	}
	return fmt.Sprintf("%s (%s)", state.SourceName, state.SourceID)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
