package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"github.com/yigit/cyberclub/internal/client"
	"github.com/yigit/cyberclub/internal/pkg/logger"
)

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "clubctl", "session.json")
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "clubctl",
		Usage: "manage the CyberClub site through its API",
		// contentLinks values are JSON and contain commas
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "API base URL including /api",
				Value:   client.DefaultBaseURL,
				EnvVars: []string{"CLUBCTL_SERVER"},
			},
			&cli.StringFlag{
				Name:    "session",
				Usage:   "file the login session is kept in",
				Value:   defaultSessionPath(),
				EnvVars: []string{"CLUBCTL_SESSION"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "per-command timeout",
				Value: 30 * time.Second,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log every API call to stderr",
			},
		},
		Before: func(c *cli.Context) error {
			level := logger.WarnLevel
			if c.Bool("debug") {
				level = logger.DebugLevel
			}
			logger.Configure(logger.Config{Level: level, Pretty: true, Output: c.App.ErrWriter})
			return nil
		},
		Commands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			registerCommand(),
			whoamiCommand(),
			kindsCommand(),
			listCommand(),
			getCommand(),
			createCommand(),
			updateCommand(),
			deleteCommand(),
			likeCommand(),
			contactCommand(),
			usersCommand(),
			healthCommand(),
		},
	}
}

// env is what every command needs: the API client, the registry over it and
// the saved session.
type env struct {
	client   *client.Client
	registry *client.Registry
	session  *sessionStore
}

func newEnv(c *cli.Context) *env {
	lgr := logger.Component("clubctl")
	if !c.Bool("debug") {
		lgr = zerolog.Nop()
	}
	api := client.New(c.String("server"), client.WithLogger(lgr))
	return &env{
		client:   api,
		registry: client.NewRegistry(api),
		session:  &sessionStore{path: c.String("session")},
	}
}

func commandContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context, c.Duration("timeout"))
}

// auth returns the saved session. required turns a missing session into an
// error before any request is made.
func (e *env) auth(required bool) (client.AuthContext, error) {
	a, err := e.session.Load()
	if err != nil {
		return client.AuthContext{}, err
	}
	if a.Authenticated() && a.Expired(time.Now()) {
		return client.AuthContext{}, fmt.Errorf("session expired, run clubctl login again")
	}
	if required && !a.Authenticated() {
		return client.AuthContext{}, fmt.Errorf("not logged in, run clubctl login first")
	}
	return a, nil
}

// parseSets turns repeated key=value flags into a map
func parseSets(sets []string) (map[string]string, error) {
	values := make(map[string]string, len(sets))
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, want key=value", s)
		}
		values[key] = value
	}
	return values, nil
}
