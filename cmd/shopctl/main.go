package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/nkiryanov/accountshop/internal/apiclient"
	"github.com/nkiryanov/accountshop/internal/logger"
)

const sessionExpired = "session expired, run `shopctl login`"

type env struct {
	getenv        func(string) string
	getwd         func() (string, error)
	userConfigDir func() (string, error)

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, e env, args []string) error {
	c := NewConfig()

	if err := c.LoadDotEnv(e.getwd); err != nil {
		return fmt.Errorf("error while loading .env file: %w", err)
	}
	if err := c.LoadEnv(e.getenv); err != nil {
		return fmt.Errorf("error while loading environment: %w", err)
	}
	args, err := c.ParseFlags(args)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		usage(e.stderr)
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		usage(e.stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}

	l, err := logger.New(logger.EnvDevelopment, c.LogLevel)
	if err != nil {
		return err
	}
	tokenFile, err := c.ResolveTokenFile(e.userConfigDir)
	if err != nil {
		return fmt.Errorf("can't locate token file: %w", err)
	}

	client, err := apiclient.New(
		apiclient.Config{BaseURL: c.APIBaseURL, Timeout: c.Timeout},
		apiclient.NewFileStore(tokenFile),
		apiclient.WithLogger(l),
		apiclient.WithUnauthorizedHandler(func(error) {
			fmt.Fprintln(e.stderr, sessionExpired) //nolint:errcheck
		}),
	)
	if err != nil {
		return err
	}

	s := &shell{client: client, in: e.stdin, out: e.stdout, errOut: e.stderr}

	err = cmd.run(ctx, s, args[1:])
	if errors.Is(err, errUsage) {
		return fmt.Errorf("usage: shopctl %s", cmd.usage)
	}
	return err
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx, env{
		getenv:        os.Getenv,
		getwd:         os.Getwd,
		userConfigDir: os.UserConfigDir,
		stdin:         os.Stdin,
		stdout:        os.Stdout,
		stderr:        os.Stderr,
	}, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err) //nolint:errcheck
		os.Exit(1)
	}
}
