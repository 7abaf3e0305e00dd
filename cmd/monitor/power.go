// cmd/monitor/power.go
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tamzrod/appliance-monitor/internal/power"
	"github.com/tamzrod/appliance-monitor/internal/ui"
)

func powerCmd() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:       "power <shutdown|restart>",
		Short:     "Send one power action to the appliance",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(power.Shutdown), string(power.Restart)},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := power.Action(args[0])
			if !action.Valid() {
				return fmt.Errorf("unknown power action %q", args[0])
			}

			a, err := power.New(power.Config{BaseURL: strings.TrimRight(url, "/")})
			if err != nil {
				return err
			}

			out := a.Perform(cmd.Context(), action)
			w := cmd.OutOrStdout()

			switch out {
			case power.Confirmed:
				fmt.Fprintln(w, ui.SuccessMsg("%s accepted", action))
			case power.Assumed:
				fmt.Fprintln(w, ui.WarnMsg("%s sent, the appliance dropped the connection", action))
			default:
				return fmt.Errorf("failed to %s the appliance", action)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://127.0.0.1", "Appliance base URL")
	return cmd
}
