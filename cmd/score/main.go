package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"questionnaire-reader/internal/config"
	"questionnaire-reader/internal/dataset"
	"questionnaire-reader/internal/db"
	"questionnaire-reader/internal/logging"
	"questionnaire-reader/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "score",
		Usage:     "score BFI, PSQI and SHS questionnaire exports",
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			runCommand(),
			tokenCommand(),
			layoutCommand(),
		},
	}
}

func layoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "layout",
		Usage: "print the effective dataset layout as YAML",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "layout", Usage: "layout YAML applied over the defaults", EnvVars: []string{"LAYOUT_FILE"}},
		},
		Action: func(c *cli.Context) error {
			l, err := dataset.LoadLayout(c.String("layout"))
			if err != nil {
				return err
			}
			out, err := l.YAML()
			if err != nil {
				return err
			}
			_, err = c.App.Writer.Write(out)
			return err
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "issue an API bearer token signed with JWT_SECRET",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "client", Usage: "client id stored in the token", Required: true},
			&cli.DurationFlag{Name: "ttl", Usage: "token lifetime (defaults to JWT_TTL_MINUTES)"},
		},
		Action: func(c *cli.Context) error {
			tokenSvc, closeFn, err := newTokenService(c.Context)
			if err != nil {
				return err
			}
			defer closeFn()

			tok, err := tokenSvc.Issue(c.String("client"), c.Duration("ttl"))
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Fprintf(c.App.Writer, "%s\n", tok.AccessToken)
			fmt.Fprintf(c.App.ErrWriter, "token id %s expires in %s\n", tok.TokenID, time.Duration(tok.ExpiresIn)*time.Second)
			return nil
		},
		Subcommands: []*cli.Command{
			{
				Name:  "revoke",
				Usage: "revoke a token in the shared Redis store",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "token", Usage: "bearer token to revoke", Required: true},
				},
				Action: func(c *cli.Context) error {
					tokenSvc, closeFn, err := newTokenService(c.Context)
					if err != nil {
						return err
					}
					defer closeFn()
					if !tokenSvc.shared {
						return fmt.Errorf("revoking needs REDIS_ADDR so the api sees the revocation")
					}
					if err := tokenSvc.Revoke(c.String("token")); err != nil {
						return fmt.Errorf("revoke token: %w", err)
					}
					fmt.Fprintln(c.App.ErrWriter, "token revoked")
					return nil
				},
			},
		},
	}
}

type cliTokenService struct {
	*service.TokenService
	shared bool
}

// newTokenService usa la lista de revocados en Redis cuando REDIS_ADDR esta configurado.
func newTokenService(ctx context.Context) (cliTokenService, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return cliTokenService{}, nil, err
	}
	if cfg.JWTSecret == "" {
		return cliTokenService{}, nil, fmt.Errorf("JWT_SECRET is not set")
	}

	var store service.RevocationStore
	closeFn := func() {}
	if client := db.NewRedisClient(cfg); client != nil {
		if err := db.Ping(ctx, client); err != nil {
			_ = client.Close()
			return cliTokenService{}, nil, fmt.Errorf("redis: %w", err)
		}
		store = service.NewRedisRevocationStore(client)
		closeFn = func() { _ = client.Close() }
	}

	ttl := time.Duration(cfg.JWTTTLMinutes) * time.Minute
	return cliTokenService{
		TokenService: service.NewTokenService(cfg.JWTSecret, ttl, store),
		shared:       store != nil,
	}, closeFn, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
}
