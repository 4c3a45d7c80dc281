package commands

import (
	"context"
	"fmt"

	jwtinfra "github.com/go-notify-links/internal/infrastructure/jwt"
	"github.com/urfave/cli/v3"
)

type TokenCmd struct {
	flags *Flags

	clientID string
}

// NewTokenCmd creates the token command.
func NewTokenCmd(flags *Flags) *TokenCmd {
	return &TokenCmd{flags: flags}
}

// Register adds the token command to the application.
func (cmd *TokenCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "token",
		Usage: "Issue API bearer tokens",
		Commands: []*cli.Command{
			{
				Name:  "issue",
				Usage: "Sign a token with JWT_PRIVATE_KEY_PATH",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "client",
						Usage:       "client id recorded in the token",
						Required:    true,
						Destination: &cmd.clientID,
					},
					&cli.StringSliceFlag{
						Name:  "scope",
						Usage: "granted scope, repeatable (notify, notify:admin)",
						Value: []string{jwtinfra.ScopeNotify},
					},
				},
				Action: cmd.runIssue,
			},
		},
	})
	return app
}

func (cmd *TokenCmd) runIssue(_ context.Context, c *cli.Command) error {
	p, err := jwtinfra.NewProvider(cmd.flags.Config)
	if err != nil {
		return fmt.Errorf("jwt provider: %w", err)
	}
	token, err := p.Sign(cmd.clientID, c.StringSlice("scope")...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.Root().Writer, token)
	return err
}
