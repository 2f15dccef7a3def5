// Command tic-example drives a USB stepper motor controller.
//
// This example shows how to:
//   - Discover a controller by model and serial number
//   - Replay a YAML settings profile on every bind
//   - Record a protocol trace for tic-log
//   - Survive unplugging and replugging the controller
//
// Usage:
//
//	go run ./cmd/tic-example -model T834 -profile motor.yaml -trace motor.tlog
//
// The example sweeps the motor between -range and +range microsteps until
// interrupted. With -capture it writes the bound controller's settings to a
// YAML file and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tic-motion/tic-go/pkg/connection"
	"github.com/tic-motion/tic-go/pkg/discovery"
	ticlog "github.com/tic-motion/tic-go/pkg/log"
	"github.com/tic-motion/tic-go/pkg/profile"
	"github.com/tic-motion/tic-go/pkg/transport"
	"github.com/tic-motion/tic-go/pkg/transport/usb"
	"github.com/tic-motion/tic-go/pkg/variable"
)

func main() {
	modelName := flag.String("model", "any", "Controller model (T825, T834, T500, T249, 36v4, any)")
	serial := flag.String("serial", "", "Controller serial number (default: any)")
	profilePath := flag.String("profile", "", "YAML settings profile replayed on bind")
	tracePath := flag.String("trace", "", "Write a protocol trace to this file")
	capturePath := flag.String("capture", "", "Write the controller settings to this YAML file and exit")
	sweep := flag.Int("range", 2000, "Sweep amplitude in microsteps")
	period := flag.Duration("period", 2*time.Second, "Time between sweep targets")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := checkPeriod(*period); err != nil {
		log.Fatalf("Invalid -period: %v", err)
	}

	model, err := discovery.ParseModel(*modelName)
	if err != nil {
		log.Fatalf("Invalid -model: %v", err)
	}

	config := connection.DefaultConfig()
	config.Logger = logger

	if *profilePath != "" {
		f, err := profile.LoadFile(*profilePath)
		if err != nil {
			log.Fatalf("Failed to load profile: %v", err)
		}
		config.Profile = f.Settings
		// Pins in the profile apply unless overridden on the command line.
		if *modelName == "any" && f.Device.Model != "" {
			if model, err = discovery.ParseModel(f.Device.Model); err != nil {
				log.Fatalf("Invalid model in profile: %v", err)
			}
		}
		if *serial == "" {
			*serial = f.Device.Serial
		}
		log.Printf("Loaded profile %s (%d settings)", *profilePath, f.Settings.Len())
	}
	config.Filter = discovery.NewFilter(model, *serial)

	trace, closeTrace, err := openTrace(*tracePath, logger, *debug)
	if err != nil {
		log.Fatalf("Failed to open trace: %v", err)
	}
	defer closeTrace()
	config.Trace = trace

	tr := usb.New(usb.Config{})
	defer tr.Close()
	config.Transport = tr

	mgr, err := connection.NewManager(config)
	if err != nil {
		log.Fatalf("Failed to create connection manager: %v", err)
	}
	defer mgr.Close()

	mgr.OnBound(func(info transport.Info) {
		log.Printf("Bound %s serial %s at %s", discovery.Model(info.ProductID), info.Serial, info.Path)
	})
	mgr.OnUnbound(func(err error) {
		log.Printf("Controller lost: %v", err)
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := mgr.Start(ctx); err != nil {
		log.Fatalf("Failed to start connection manager: %v", err)
	}
	log.Printf("Waiting for %s controller...", model)

	if *capturePath != "" {
		if err := capture(ctx, mgr, *capturePath); err != nil {
			log.Fatalf("Capture failed: %v", err)
		}
		return
	}

	runSweep(ctx, mgr, int32(*sweep), *period)
	log.Println("Shutting down...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := mgr.Deenergize(stopCtx); err != nil {
		log.Printf("Deenergize: %v", err)
	}
}

// openTrace returns the trace logger for the given flags.
func openTrace(path string, logger *slog.Logger, debug bool) (ticlog.Logger, func(), error) {
	var loggers []ticlog.Logger
	closeFn := func() {}

	if path != "" {
		fl, err := ticlog.NewFileLogger(path)
		if err != nil {
			return nil, nil, err
		}
		loggers = append(loggers, fl)
		closeFn = func() {
			if n := fl.Dropped(); n > 0 {
				log.Printf("Trace dropped %d events", n)
			}
			fl.Close()
		}
	}
	if debug {
		loggers = append(loggers, ticlog.NewSlogAdapter(logger))
	}

	switch len(loggers) {
	case 0:
		return ticlog.NoopLogger{}, closeFn, nil
	case 1:
		return loggers[0], closeFn, nil
	default:
		return ticlog.NewMultiLogger(loggers...), closeFn, nil
	}
}

func capture(ctx context.Context, mgr *connection.Manager, path string) error {
	if err := mgr.WaitState(ctx, connection.StateBound); err != nil {
		return err
	}
	info, _ := mgr.Info()

	p, err := mgr.CaptureProfile(ctx)
	if err != nil {
		return err
	}
	data, err := profile.Marshal(&profile.File{
		Device:   profile.Device{Model: discovery.Model(info.ProductID).String(), Serial: info.Serial},
		Settings: p,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	log.Printf("Wrote %d settings to %s", p.Len(), path)
	return nil
}

// minSweepPeriod keeps the keepalive ticker well above zero.
const minSweepPeriod = 100 * time.Millisecond

func checkPeriod(period time.Duration) error {
	if period < minSweepPeriod {
		return fmt.Errorf("%v is shorter than %v", period, minSweepPeriod)
	}
	return nil
}

func runSweep(ctx context.Context, mgr *connection.Manager, amplitude int32, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	// The command timeout stops the motor if this loop stalls.
	keepalive := time.NewTicker(period / 4)
	defer keepalive.Stop()

	target := amplitude
	for {
		select {
		case <-ctx.Done():
			return

		case <-keepalive.C:
			if mgr.IsBound() {
				_ = mgr.ResetCommandTimeout(ctx)
			}

		case <-ticker.C:
			if !mgr.IsBound() {
				continue
			}
			if err := mgr.ExitSafeStart(ctx); err != nil {
				log.Printf("Exit safe start: %v", err)
				continue
			}
			mgr.TrySetPosition(ctx, target)

			pos, ok := mgr.Position(ctx)
			if ok {
				log.Printf("Target %d, position %d", target, pos)
			}
			if status, err := mgr.GetVariableAndClear(ctx, variable.ErrorsOccurred); err == nil && status != 0 {
				log.Printf("Errors occurred: %s", variable.ErrorBits(status))
			}
			target = -target
		}
	}
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tic-example [flags]\n\nFlags:\n")
		flag.PrintDefaults()
	}
}
