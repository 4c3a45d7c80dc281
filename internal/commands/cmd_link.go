package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-notify-links/internal/domain"
	"github.com/go-notify-links/internal/pkg/deeplink"
	"github.com/urfave/cli/v3"
)

type LinkCmd struct {
	flags *Flags
}

// NewLinkCmd creates the link command.
func NewLinkCmd(flags *Flags) *LinkCmd {
	return &LinkCmd{flags: flags}
}

// Register adds the link command to the application.
func (cmd *LinkCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "link",
		Usage: "Encode and decode deep links",
		Description: `Links use LINK_SCHEME and LINK_HOST:

  notifyd link encode CallScreen action=answer title=Alice
  notifyd link decode 'myapp://app/CallScreen?action=answer&title=Alice'`,
		Commands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     "Print the link for a screen and parameters",
				ArgsUsage: "<screen> [key=value...]",
				Action:    cmd.runEncode,
			},
			{
				Name:      "decode",
				Usage:     "Print the screen and parameters of a link",
				ArgsUsage: "<uri>",
				Action:    cmd.runDecode,
			},
		},
	})
	return app
}

func (cmd *LinkCmd) runEncode(_ context.Context, c *cli.Command) error {
	args := c.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("screen is required")
	}
	t, err := parseTarget(args[0], args[1:])
	if err != nil {
		return err
	}
	link, err := codecFor(cmd.flags.Config).Encode(t)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.Root().Writer, link)
	return err
}

func (cmd *LinkCmd) runDecode(_ context.Context, c *cli.Command) error {
	uri := c.Args().First()
	if uri == "" {
		return fmt.Errorf("uri is required")
	}
	return decodeTo(c.Root().Writer, codecFor(cmd.flags.Config), uri)
}

// parseTarget builds a target from key=value pairs, keeping their order.
func parseTarget(screen string, pairs []string) (domain.DeepLinkTarget, error) {
	t := domain.DeepLinkTarget{Screen: screen}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return domain.DeepLinkTarget{}, fmt.Errorf("parameter %q is not key=value", p)
		}
		t = t.With(k, v)
	}
	return t, nil
}

func decodeTo(w io.Writer, codec *deeplink.Codec, uri string) error {
	t, err := codec.Decode(uri)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "screen: %s\n", t.Screen); err != nil {
		return err
	}
	for _, p := range t.Params {
		if _, err := fmt.Fprintf(w, "  %s = %s\n", p.Key, p.Value); err != nil {
			return err
		}
	}
	return nil
}
