package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "finance-insight",
	Short: "A CLI for managing the finance insight services",
	Long:  `Finance insight serves product recommendations and community sentiment analysis through the api, execution and scheduling services.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
