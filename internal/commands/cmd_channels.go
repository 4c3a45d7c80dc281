package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/go-notify-links/internal/application/channel"
	"github.com/go-notify-links/internal/domain"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

type ChannelsCmd struct {
	flags *Flags
}

// NewChannelsCmd creates the channels command.
func NewChannelsCmd(flags *Flags) *ChannelsCmd {
	return &ChannelsCmd{flags: flags}
}

// channelStore is the subset of the DynamoDB catalog push writes to.
type channelStore interface {
	Ensure(ctx context.Context, d domain.ChannelDescriptor) (bool, error)
}

// Register adds the channels command to the application.
func (cmd *ChannelsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "channels",
		Usage: "Inspect and publish notification channels",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "Print the channels serve would register",
				Action: cmd.runList,
			},
			{
				Name:      "push",
				Usage:     "Write a channel file into the DynamoDB catalog",
				ArgsUsage: "<path|s3://bucket/key>",
				Description: `Entries already in the catalog with identical fields are skipped.
An entry that differs from the catalog fails the push.`,
				Action: cmd.runPush,
			},
		},
	})
	return app
}

func (cmd *ChannelsCmd) runList(ctx context.Context, c *cli.Command) error {
	registry, err := loadChannels(ctx, cmd.flags.Config, cmd.flags.Log)
	if err != nil {
		return err
	}
	return printChannels(c.Root().Writer, registry.List())
}

func (cmd *ChannelsCmd) runPush(ctx context.Context, c *cli.Command) error {
	location := c.Args().First()
	if location == "" {
		return fmt.Errorf("channel file is required")
	}
	cfg := cmd.flags.Config

	src, err := channelSource(ctx, cfg, location)
	if err != nil {
		return err
	}
	ds, err := src.Channels(ctx)
	if err != nil {
		return fmt.Errorf("read %s: %w", location, err)
	}
	repo, err := channelCatalog(ctx, cfg, cmd.flags.Log)
	if err != nil {
		return err
	}
	return pushChannels(ctx, c.Root().Writer, repo, ds, cmd.flags.Log)
}

// pushChannels checks ds the way serve will register them, built-ins
// included, then ensures each one exists in store. Nothing is written when
// any descriptor is invalid, and the push stops at the first store failure.
func pushChannels(ctx context.Context, w io.Writer, store channelStore, ds []domain.ChannelDescriptor, log zerolog.Logger) error {
	if err := channel.NewDefaultRegistry(log).RegisterAll(ds...); err != nil {
		return fmt.Errorf("check channel file: %w", err)
	}
	for _, d := range ds {
		created, err := store.Ensure(ctx, d)
		if err != nil {
			return fmt.Errorf("push %s: %w", d.ID, err)
		}
		state := "unchanged"
		if created {
			state = "created"
		}
		if _, err := fmt.Fprintf(w, "%-9s %s\n", state, d.ID); err != nil {
			return err
		}
	}
	return nil
}

func printChannels(w io.Writer, ds []domain.ChannelDescriptor) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLEVEL\tVIBRATION")
	for _, d := range ds {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", d.ID, d.Name, d.InterruptionLevel, d.EnableVibration)
	}
	return tw.Flush()
}
