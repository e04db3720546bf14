package cmd

import (
	"context"
	"log"
	"multisig/domain/config"
	"multisig/interface/api"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the treasury HTTP service",
	Long:  `Starts the treasury HTTP service. It stops on SIGINT or SIGTERM.`,
	Run: func(cmd *cobra.Command, args []string) {
		defaultDependencyInject()

		server := &http.Server{
			Addr:              config.GetListenAddress(),
			Handler:           api.NewHandler(authorizationInteractor).Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			log.Printf("🔵 listening on %v [store: %v]\n", server.Addr, config.GetStore())
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Unable to serve - %v\n", err.Error())
			}
		}()

		signal.Ignore()
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		s := <-stop
		log.Printf("Got signal '%v', stopping", s)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("🔴 shutting down - %v\n", err.Error())
		}
		if dbPool != nil {
			dbPool.Close()
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
