// Command rtkerneld is the hosted demo entrypoint: it brings up a System on
// top of the simulated Port, spawns a couple of demo application threads,
// and serves the /kernel/... shell commands over stdin/stdout, in the style
// of the teacher's runsc/cli.Main.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/erikmoqvist/rtkernel/kconfig"
	"github.com/erikmoqvist/rtkernel/kernel"
	"github.com/erikmoqvist/rtkernel/port"
	"github.com/erikmoqvist/rtkernel/shell"
)

var configPath = flag.String("config", "", "path to a TOML kernel configuration file")

func main() {
	flag.Parse()

	cfg := kconfig.Default()
	if *configPath != "" {
		loaded, err := kconfig.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rtkerneld: loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	sys := kernel.New(cfg, port.NewSimulator())
	sys.Logger().SetLevel(logrus.InfoLevel)

	if err := sys.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "rtkerneld: starting kernel: %v\n", err)
		os.Exit(1)
	}
	defer sys.Stop()

	spawnDemoThreads(sys)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error { return runShellLoop(gctx, sys) })
	group.Go(func() error {
		// This goroutine acts as the kernel's main thread. Nothing preempts a
		// running thread, so main has to sleep through the kernel for the
		// demo threads, Idle and Monitor to ever be scheduled.
		for gctx.Err() == nil {
			sys.USleep(100 * time.Millisecond)
		}
		return nil
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "rtkerneld: %v\n", err)
		os.Exit(1)
	}
}

// runShellLoop reads one shell command line at a time from stdin until ctx
// is canceled or stdin is closed, dispatching each to a fresh Commander the
// way the original firmware's shell dispatches one command per line.
func runShellLoop(ctx context.Context, sys *kernel.System) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			dispatch(ctx, sys, line)
		}
	}
}

func dispatch(ctx context.Context, sys *kernel.System, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	fs := flag.NewFlagSet(fields[0], flag.ContinueOnError)
	cmdr := subcommands.NewCommander(fs, fields[0])
	shell.Register(cmdr, sys, os.Stdout)
	if err := fs.Parse(fields); err != nil {
		return
	}
	cmdr.Execute(ctx)
}

// spawnDemoThreads mirrors the original firmware's example application: a
// consumer that suspends waiting for work and a producer that periodically
// wakes it, exercising Suspend/Resume and USleep end to end.
func spawnDemoThreads(sys *kernel.System) {
	consumer, errno := sys.Spawn("consumer", func(arg any) {
		for {
			if err := sys.Suspend(nil); err != kernel.OK {
				return
			}
		}
	}, nil, 10, 4096)
	if errno != kernel.OK {
		return
	}

	sys.Spawn("producer", func(arg any) {
		for i := 0; i < 5; i++ {
			sys.USleep(500 * time.Millisecond)
			sys.Resume(consumer, kernel.OK)
		}
	}, nil, 5, 4096)
}
