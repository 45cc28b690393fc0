package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-pointlight/pkg/host"
	"github.com/teslashibe/go-pointlight/pkg/render/term"
	"github.com/teslashibe/go-pointlight/pkg/streamclient"
)

func newPlayCmd(a *app) *cobra.Command {
	var remote string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a stimulus in the terminal",
		Long: `Play a stimulus in the terminal. With --remote, frames come from a
running pointlight server instead of a local sequence. Press q to quit.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{quietAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if remote != "" {
				return a.playRemote(cmd.Context(), remote)
			}
			return a.playLocal(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&remote, "remote", "", "frame stream URL, e.g. ws://localhost:8080/ws/frames")
	return cmd
}

func (a *app) playLocal(ctx context.Context) error {
	seq, err := a.sequence()
	if err != nil {
		return err
	}

	display, err := term.Open(a.settings.View.Bounds())
	if err != nil {
		return err
	}
	defer display.Close()

	player := host.NewPlayer(seq, a.settings.Stimulus.FPS, display).WithLogger(a.log)
	return player.Run(ctx)
}

func (a *app) playRemote(ctx context.Context, url string) error {
	client, err := streamclient.Dial(ctx, url)
	if err != nil {
		return err
	}
	defer client.Close()

	display, err := term.Open(a.settings.View.Bounds())
	if err != nil {
		return err
	}
	defer display.Close()

	// Unblock Next when the viewer quits or ctx ends.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-display.Quit():
		case <-ctx.Done():
		}
		client.Close()
	}()

	for {
		f, err := client.Next()
		if err != nil {
			select {
			case <-display.Quit():
				return nil
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		if err := display.WriteFrame(f); errors.Is(err, host.ErrStop) {
			return nil
		}
	}
}
