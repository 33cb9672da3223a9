package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/app/repositories/memstore"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/internal/kernel"
	"github.com/shashiranjanraj/storefront/internal/server"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// storefront serve: start the HTTP and gRPC servers.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP and gRPC servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		if uri := config.LogMongoURI(); uri != "" {
			h, err := logger.NewMongoHandler(uri, config.Get("LOG_MONGO_DB", "storefront"), config.Get("LOG_MONGO_COLLECTION", "logs"))
			if err != nil {
				logger.Warn("mongo log sink disabled", "error", err)
			} else {
				defer h.Close()
				logger.Setup(h)
			}
		}

		ctx := cmd.Context()
		a, err := bootApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		k, err := kernel.NewHTTP(a.services, a.disks, httpOptions())
		if err != nil {
			return err
		}

		return server.Run(ctx, server.Config{
			HTTPPort: config.AppPort(),
			GRPCPort: config.GRPCPort(),
			Handler:  k.Handler(),
			Limiter:  k.Limiter(),
		})
	},
}

// storefront route:list: print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Routes do not depend on the backing store.
		s := kernel.NewServices(kernel.Deps{Store: memstore.New()})
		k, err := kernel.NewHTTP(s, nil, httpOptions())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range k.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
