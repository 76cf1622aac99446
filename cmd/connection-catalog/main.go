package main

import (
	"os"

	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {

	var listenAddr string

	// rootCmd represents the base command when called without any subcommands
	var rootCmd = &cobra.Command{
		Use: "connection-catalog",
	}

	var apiServerCmd = &cobra.Command{
		Use:   "api_server",
		Short: "Connection Catalog API Server",
		Run: func(cmd *cobra.Command, args []string) {
			startConnectionCatalogApiServer(listenAddr)
		},
	}

	rootCmd.AddCommand(apiServerCmd)
	apiServerCmd.Flags().StringVarP(&listenAddr, "listen-addr", "l", ":8081", "Hostname:port")

	return rootCmd
}

func main() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
