// Package main implements usecasedemo, a headless driver for the upload and
// background task use cases. Every state change is rendered as a log line.
//
// Usage:
//
//	go run ./cmd/usecasedemo --scenario=cancel --log-format=json
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-logr/logr/funcr"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/usecasemesh/config"
	"github.com/hupe1980/usecasemesh/logging"
	"github.com/hupe1980/usecasemesh/state"
	"github.com/hupe1980/usecasemesh/viewmodel"
	"github.com/hupe1980/usecasemesh/workload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "usecasedemo: %v\n", err)
		os.Exit(1)
	}
}

// scenario names a scripted interaction with the view model.
type scenario string

const (
	scenarioComplete scenario = "complete"
	scenarioCancel   scenario = "cancel"
	scenarioError    scenario = "error"
	scenarioRestart  scenario = "restart"
)

func parseScenario(s string) (scenario, error) {
	switch sc := scenario(s); sc {
	case scenarioComplete, scenarioCancel, scenarioError, scenarioRestart:
		return sc, nil
	default:
		return "", fmt.Errorf("unknown scenario %q (want complete, cancel, error or restart)", s)
	}
}

// trigger is the upload progress at which the scenario acts.
func (sc scenario) trigger() int {
	switch sc {
	case scenarioCancel:
		return 10
	case scenarioError:
		return 30
	case scenarioRestart:
		return 50
	default:
		return -1
	}
}

// expected is the terminal state the scenario must end in.
func (sc scenario) expected() state.Kind {
	switch sc {
	case scenarioCancel:
		return state.KindCancelled
	case scenarioError:
		return state.KindError
	default:
		return state.KindSuccess
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("usecasedemo", pflag.ContinueOnError)
	fs.SetOutput(out)

	configFile := fs.String("config", "", "path to a YAML, JSON or TOML config file")
	scenarioName := fs.String("scenario", string(scenarioComplete), "scenario to run (complete, cancel, error, restart)")
	config.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	sc, err := parseScenario(*scenarioName)
	if err != nil {
		return err
	}

	cfg, err := config.Load(func(o *config.LoadOptions) {
		o.ConfigFile = *configFile
		o.Flags = fs
	})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg.Log, out)
	if err != nil {
		return err
	}

	logger.Info("configuration loaded",
		"scenario", string(sc),
		"session_id", cfg.Upload.SessionID,
		"upload_steps", cfg.Upload.Steps,
		"workers", cfg.Runner.Workers)

	vm := viewmodel.New(viewmodel.FromConfig(cfg), func(o *viewmodel.Options) {
		o.Logger = logger
	})
	defer vm.Close()

	stopRender := render(logger, vm)
	defer stopRender()

	states, unsubscribe := vm.ViewState().Subscribe(16)
	defer unsubscribe()

	g, gctx := errgroup.WithContext(ctx)

	var final viewmodel.ViewState

	g.Go(func() error {
		var err error
		final, err = awaitTerminal(gctx, states)
		return err
	})

	g.Go(func() error {
		return drive(gctx, logger, vm, sc)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	if final.Kind() != sc.expected() {
		return fmt.Errorf("scenario %s ended in state %s, want %s", sc, final, sc.expected())
	}

	logger.Info("scenario finished", "scenario", string(sc), "state", final.String())

	return nil
}

// newLogger builds a slog backed logger for the json and text formats and a
// funcr backed logr logger for the logr format.
func newLogger(cfg config.LogConfig, out io.Writer) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	if cfg.Format == "logr" {
		verbosity := 0
		if level == logging.LogLevelDebug {
			verbosity = 1
		}

		sink := funcr.New(func(prefix, args string) {
			if prefix != "" {
				fmt.Fprintf(out, "%s: %s\n", prefix, args)
				return
			}
			fmt.Fprintln(out, args)
		}, funcr.Options{Verbosity: verbosity, LogTimestamp: true})

		return logging.NewLogrAdapter(sink.WithName("usecasedemo")), nil
	}

	return logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    cfg.Format,
		Output:    out,
		Component: "usecasedemo",
	}), nil
}

// render logs every upload snapshot and lifecycle state in delivery order.
func render(logger logging.Logger, vm *viewmodel.ViewModel) func() {
	stopUploads := vm.Upload().Observe(func(u workload.Upload) {
		logger.Info("upload progress", "progress", u.Progress, "result", u.Result)
	})

	stopStates := vm.ViewState().Observe(func(s viewmodel.ViewState) {
		switch s.Kind() {
		case state.KindLoading:
			logger.Info("upload loading")
		case state.KindCancelled:
			logger.Info("upload cancelled")
		case state.KindSuccess:
			logger.Info("upload completed")
		case state.KindError:
			logger.Warn("upload failed", "error", s.Err())
		}
	})

	return func() {
		stopUploads()
		stopStates()
	}
}

// awaitTerminal returns the first terminal state received on states.
func awaitTerminal(ctx context.Context, states <-chan viewmodel.ViewState) (viewmodel.ViewState, error) {
	for {
		select {
		case s, ok := <-states:
			if !ok {
				return s, errors.New("view state stream closed")
			}
			if s.Terminal() {
				return s, nil
			}
		case <-ctx.Done():
			return viewmodel.ViewState{}, ctx.Err()
		}
	}
}

// drive starts both use cases, performs the scenario's action once the upload
// reaches its trigger, and waits for the background task.
func drive(ctx context.Context, logger logging.Logger, vm *viewmodel.ViewModel, sc scenario) error {
	reached, stop := progressReached(vm.Upload(), sc.trigger())
	defer stop()

	vm.LoadData(false)
	background := vm.StartBackgroundTask()

	if sc != scenarioComplete {
		select {
		case <-reached:
		case <-ctx.Done():
			return ctx.Err()
		}

		logger.Info("scenario action", "scenario", string(sc), "progress", sc.trigger())

		switch sc {
		case scenarioCancel:
			vm.Cancel()
		case scenarioError:
			vm.ThrowError()
		case scenarioRestart:
			vm.LoadData(true)
		}
	}

	_, err := background.Wait(ctx)

	return err
}

// progressReached returns a channel closed once an upload snapshot with at
// least threshold progress is published.
func progressReached(s *state.Stream[workload.Upload], threshold int) (<-chan struct{}, func()) {
	reached := make(chan struct{})

	var once sync.Once

	stop := s.Observe(func(u workload.Upload) {
		if u.Progress >= threshold {
			once.Do(func() { close(reached) })
		}
	})

	return reached, stop
}
