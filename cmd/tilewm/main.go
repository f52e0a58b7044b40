// Command tilewm is the process entrypoint: a cobra command tree whose
// default action runs the window-manager daemon under a suture
// supervisor, plus client subcommands that talk to a running daemon
// over the control socket (package command). Grounded on
// ItsNotGoodName-x-ipcviewer's cmd/x-ipcviewer/main.go for the overall
// shape (config load, connection setup, supervised event loop) adapted
// from its humacli/HTTP server onto a cobra CLI and Unix socket.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/thejerf/suture/v4"

	"github.com/sashwm/sash/client"
	"github.com/sashwm/sash/command"
	"github.com/sashwm/sash/geom"
	"github.com/sashwm/sash/hook"
	"github.com/sashwm/sash/monitor"
	"github.com/sashwm/sash/settings"
	"github.com/sashwm/sash/wm"
	"github.com/sashwm/sash/x11adapter"
)

var (
	configPath string
	socketPath string
)

func main() {
	root := &cobra.Command{
		Use:   "tilewm",
		Short: "A manual tiling window manager core",
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "settings YAML file")
	root.PersistentFlags().StringVar(&socketPath, "socket", command.SocketPath(), "control socket path")

	root.AddCommand(
		runCmd(),
		closeCmd(),
		setPropertyCmd(),
		tagCmd(),
		monitorCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "tilewm.yaml"
	}
	return dir + "/tilewm/tilewm.yaml"
}

// runCmd is the daemon entrypoint. It owns the X connection, the
// World, and every supervised background service.
func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "start the window manager daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context())
		},
	}
}

func runDaemon(ctx context.Context) error {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	st := settings.New()
	if err := st.Load(configPath); err != nil {
		log.WithError(err).Warn("settings: using defaults")
	}
	defer st.Close()

	adapter, err := x11adapter.New()
	if err != nil {
		return fmt.Errorf("connect to X: %w", err)
	}

	ewmhBridge := x11adapter.NewEWMHBridge(adapter)
	emitter := hook.NewLogEmitter()
	rules := client.DefaultRules{}
	world := wm.New(adapter, emitter, rules, ewmhBridge, st, client.NoopDecorator{})

	if _, err := world.AddTag("default"); err != nil {
		return fmt.Errorf("create default tag: %w", err)
	}
	world.AddMonitor(monitor.New("default", 0, geom.Rect{X: 0, Y: 0, W: 1920, H: 1080}))
	if mon := world.Monitors().Current(); mon != nil {
		mon.CurrentTag = "default"
	}

	ipcServer := command.NewServer(world, socketPath)
	dispatcher := &x11adapter.Dispatcher{Adapter: adapter, World: world, IPCRequests: ipcServer.Requests}

	super := suture.New("tilewm", suture.Spec{EventHook: supervisorEventHook()})
	super.Add(dispatcherService{dispatcher})
	super.Add(ipcService{ipcServer})

	world.Phase = wm.PhaseRunning

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := super.ServeBackground(ctx)
	<-ctx.Done()
	world.Shutdown()
	ipcServer.Close()
	<-errCh
	return nil
}

type dispatcherService struct{ d *x11adapter.Dispatcher }

func (s dispatcherService) String() string { return "x11-dispatcher" }
func (s dispatcherService) Serve(ctx context.Context) error {
	return s.d.Run(ctx)
}

type ipcService struct{ s *command.Server }

func (s ipcService) String() string { return "control-socket" }
func (s ipcService) Serve(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- s.s.Serve() }()
	select {
	case <-ctx.Done():
		s.s.Close()
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func supervisorEventHook() suture.EventHook {
	return func(ei suture.Event) {
		switch e := ei.(type) {
		case suture.EventServicePanic:
			log.WithField("panic", e.PanicMsg).Warn("tilewm: service panicked, restarting")
		case suture.EventServiceTerminate:
			log.WithError(fmt.Errorf("%v", e.Err)).WithField("service", e.ServiceName).Warn("tilewm: service terminated")
		case suture.EventBackoff:
			log.WithField("supervisor", e.SupervisorName).Debug("tilewm: entering backoff")
		case suture.EventResume:
			log.WithField("supervisor", e.SupervisorName).Debug("tilewm: resumed from backoff")
		}
	}
}

func sendCommand(argv []string) error {
	out, code, err := command.Send(socketPath, argv)
	if out != "" {
		fmt.Println(out)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	if code != 0 {
		os.Exit(code)
	}
	return nil
}

func closeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close [window-spec]",
		Short: "close the focused or specified window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendCommand(append([]string{"close"}, args...))
		},
	}
}

func setPropertyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set_property <fullscreen|pseudotile> <on|off|toggle>",
		Short: "set a property on the focused client",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendCommand(append([]string{"set_property"}, args...))
		},
	}
}

func tagCmd() *cobra.Command {
	c := &cobra.Command{Use: "tag", Short: "tag manipulation"}
	c.AddCommand(
		&cobra.Command{Use: "add <name>", Args: cobra.ExactArgs(1), RunE: forward("tag", "add")},
		&cobra.Command{Use: "remove <name>", Args: cobra.ExactArgs(1), RunE: forward("tag", "remove")},
		&cobra.Command{Use: "rename <old> <new>", Args: cobra.ExactArgs(2), RunE: forward("tag", "rename")},
		&cobra.Command{Use: "move <window-spec> <tag>", Args: cobra.ExactArgs(2), RunE: forward("tag", "move")},
		&cobra.Command{Use: "floating <name> <on|off|toggle>", Args: cobra.ExactArgs(2), RunE: forward("tag", "floating")},
	)
	return c
}

func monitorCmd() *cobra.Command {
	c := &cobra.Command{Use: "monitor", Short: "monitor manipulation"}
	c.AddCommand(
		&cobra.Command{Use: "focus <index>", Args: cobra.ExactArgs(1), RunE: forward("monitor", "focus")},
	)
	return c
}

func forward(group, verb string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		argv := append([]string{group, verb}, args...)
		return sendCommand(argv)
	}
}
