// cmd/monitor/watch.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/tamzrod/appliance-monitor/internal/hub"
	"github.com/tamzrod/appliance-monitor/internal/ui"
)

func watchCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow a running monitor and render its state",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := url.URL{Scheme: "ws", Host: addr, Path: "/api/ws"}

			conn, _, err := websocket.DefaultDialer.DialContext(cmd.Context(), u.String(), nil)
			if err != nil {
				return fmt.Errorf("connect %s: %w", u.String(), err)
			}
			defer conn.Close()

			go func() {
				<-cmd.Context().Done()
				conn.Close()
			}()

			return follow(conn, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8081", "Monitor listen address")
	return cmd
}

// follow renders events until the monitor closes the socket.
func follow(conn *websocket.Conn, w io.Writer) error {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				fmt.Fprintln(w, ui.Muted("monitor went away"))
				return nil
			}
			return err
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var ev hub.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			slog.Debug("skip undecodable event", "error", err)
			continue
		}

		switch ev.Type {
		case hub.EventState:
			if ev.State != nil {
				fmt.Fprint(w, ui.View(*ev.State))
			}
		case hub.EventAlert:
			fmt.Fprintln(w, ui.ErrorMsg("%s", ev.Message))
		case hub.EventReload:
			fmt.Fprintln(w, ui.InfoMsg("appliance is back, reload the appliance UI"))
		}
	}
}
