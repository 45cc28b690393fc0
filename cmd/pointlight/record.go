package main

import (
	"bufio"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-pointlight/pkg/streamclient"
)

func newRecordCmd(a *app) *cobra.Command {
	var (
		out    string
		frames int
	)

	cmd := &cobra.Command{
		Use:   "record <url>",
		Short: "Record a server's frame stream as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := streamclient.Dial(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer client.Close()

			w, closeOut, err := openOut(cmd, out)
			if err != nil {
				return err
			}
			bw := bufio.NewWriter(w)

			n, err := client.Record(cmd.Context(), bw, frames)
			if ferr := bw.Flush(); err == nil {
				err = ferr
			}
			if cerr := closeOut(); err == nil {
				err = cerr
			}
			a.log.Info("recording finished", "url", args[0], "frames", n)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	cmd.Flags().IntVarP(&frames, "frames", "n", 0, "frames to record, 0 until the stream ends")
	return cmd
}
