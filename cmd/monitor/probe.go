// cmd/monitor/probe.go
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tamzrod/appliance-monitor/internal/probe"
	"github.com/tamzrod/appliance-monitor/internal/ui"
)

func probeCmd() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check liveness and print the status feed once",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := probe.New(probe.Config{BaseURL: strings.TrimRight(url, "/")})
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			fmt.Fprint(out, ui.KeyValues("",
				ui.KV("appliance", url),
				ui.KV("live", ui.Bool(c.Live(ctx))),
			))

			services, err := c.FetchStatus(ctx)
			if err != nil {
				fmt.Fprintln(out, ui.WarnMsg("status feed unavailable: %v", err))
				return nil
			}
			fmt.Fprint(out, ui.Services(services))

			if code, ok := probe.FirstErrorCode(services); ok {
				fmt.Fprintln(out, ui.ErrorMsg("first errored service reports %s", code))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://127.0.0.1", "Appliance base URL")
	return cmd
}
