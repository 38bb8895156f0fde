// Package main provides a terminal client for the messaging API.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wellnest/messaging/internal/auth"
	"github.com/wellnest/messaging/internal/client"
	"github.com/wellnest/messaging/internal/domain"
)

type flags struct {
	addr   string
	token  string
	as     string
	role   string
	secret string
}

func main() {
	f := &flags{}

	app := &cli.Command{
		Name:  "wellnest-chat",
		Usage: "Chat with counselors and the wellness assistant from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "messaging API base URL",
				Sources:     cli.EnvVars("MESSAGING_URL"),
				Value:       "http://localhost:8080",
				Destination: &f.addr,
			},
			&cli.StringFlag{
				Name:        "token",
				Usage:       "session token",
				Sources:     cli.EnvVars("MESSAGING_TOKEN"),
				Destination: &f.token,
			},
			&cli.StringFlag{
				Name:        "as",
				Usage:       "participant id to mint a local token for (requires --secret)",
				Destination: &f.as,
			},
			&cli.StringFlag{
				Name:        "role",
				Usage:       "role claim of a locally minted token",
				Value:       string(domain.RoleStudent),
				Destination: &f.role,
			},
			&cli.StringFlag{
				Name:        "secret",
				Usage:       "JWT secret for local tokens",
				Sources:     cli.EnvVars("JWT_SECRET"),
				Destination: &f.secret,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			token, selfID, err := f.session()
			if err != nil {
				return err
			}
			r := newREPL(client.NewClient(f.addr, token), selfID, os.Stdout)
			return r.run(ctx, os.Stdin)
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// session returns the bearer token and the participant id it belongs to.
func (f *flags) session() (string, string, error) {
	if f.as != "" {
		if f.secret == "" {
			return "", "", fmt.Errorf("--as requires --secret or JWT_SECRET")
		}
		verifier := auth.NewJWTVerifier([]byte(f.secret))
		session := domain.Session{ParticipantID: f.as, Role: domain.Role(f.role)}
		token, err := verifier.Generate(session, 12*time.Hour)
		if err != nil {
			return "", "", err
		}
		return token, f.as, nil
	}
	if f.token == "" {
		return "", "", fmt.Errorf("either --token or --as is required")
	}
	if f.secret == "" {
		return "", "", fmt.Errorf("--secret or JWT_SECRET is required to read the token subject")
	}
	session, err := auth.NewJWTVerifier([]byte(f.secret)).Verify(f.token)
	if err != nil {
		return "", "", err
	}
	return f.token, session.ParticipantID, nil
}
