package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ideamap/ideamap/internal/httpapi"
	"github.com/ideamap/ideamap/pkg/assets"
)

// defaultServeAddr is used when neither the flag nor the config file
// sets an address.
const defaultServeAddr = ":8712"

// serveCommand creates the "serve" command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for host applications",
		Long: `Serve exposes document load/save, idea expansion, and asset upload
over HTTP, backed by the store configured in the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			as, err := assets.NewStore("")
			if err != nil {
				return err
			}

			var expander httpapi.Expander
			if client, err := c.newExpandClient(false); err == nil {
				expander = client
			} else {
				c.Logger.Debug("expansion disabled", "reason", err)
			}

			if addr == "" {
				addr = c.Config.Serve.Addr
			}
			if addr == "" {
				addr = defaultServeAddr
			}

			api := httpapi.New(st, as, expander, c.Logger)
			srv := &http.Server{
				Addr:              addr,
				Handler:           api.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()
			printInfo("Listening on %s", addr)
			printDetail("Store backend: %s", c.storeBackendName())

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			printSuccess("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else "+defaultServeAddr+")")
	return cmd
}

func (c *CLI) storeBackendName() string {
	if c.Config.Store.Backend == "" {
		return "file"
	}
	return c.Config.Store.Backend
}
