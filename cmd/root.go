package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/correia-crespo/triagem/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "triagem",
	Short: "Assistente de triagem jurídica Correia & Crespo",
	Long: `Triagem runs the Correia & Crespo legal-triage assistant: a bounded,
single-turn conversation that gives general guidance and redirects to a
human consultation. The default command opens the terminal widget;
'triagem serve' runs the website and policy gateway.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior: run the triage widget
		application, err := app.NewApplication()
		if err != nil {
			log.Fatalf("Failed to create application: %v", err)
		}
		defer application.Stop()

		if err := application.Start(); err != nil {
			log.Fatalf("Application error: %v", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(profileCmd)
}
