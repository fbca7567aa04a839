package cmd

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/correia-crespo/triagem/internal/config"
	"github.com/correia-crespo/triagem/internal/server"
	"github.com/correia-crespo/triagem/internal/server/llm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the website and chat policy gateway",
	Long: `Serve the static marketing site and the /api/chat policy gateway.
The gateway validates and truncates incoming messages, rejects PII before
any external call, and post-processes every reply for disclaimer and
format compliance.`,
	Run: func(cmd *cobra.Command, args []string) {
		gin.SetMode(gin.ReleaseMode)
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		slog.SetDefault(logger)

		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		// No credentials means the assistant endpoint answers 503; the
		// site itself still serves.
		var completer llm.Completer
		if cfg.IsValid() {
			client, err := llm.NewOpenAIClient(llm.Options{
				APIKey:  cfg.GetAPIKey(),
				BaseURL: cfg.GetBaseURL(),
				Model:   cfg.GetModel(),
			})
			if err != nil {
				log.Fatalf("Failed to create completion client: %v", err)
			}
			completer = client
		}

		if err := server.Run(cfg, completer); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	},
}
