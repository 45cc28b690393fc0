package main

import (
	"github.com/spf13/cobra"

	"github.com/teslashibe/go-pointlight/pkg/web"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream stimuli to browsers over websockets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.settings
			loop, err := s.Loop()
			if err != nil {
				return err
			}

			srv, err := web.NewServer(web.Config{
				Addr:     s.Server.Addr,
				Static:   s.Server.Static,
				FPS:      s.Stimulus.FPS,
				Skeleton: a.skel,
				Registry: a.registry,
				View:     s.ActionView(),
				Initial: web.SequenceRequest{
					Action:         s.Stimulus.Action,
					Weight:         s.Stimulus.Weight,
					Mood:           s.Stimulus.Mood,
					AmplitudeScale: s.Stimulus.AmplitudeScale,
					SpeedScale:     s.Stimulus.SpeedScale,
					BaseYOffset:    s.Stimulus.BaseYOffset,
					Loop:           loop,
				},
				Logger: a.log,
			})
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("static", "", "directory with a display page to serve at /")
	return cmd
}
