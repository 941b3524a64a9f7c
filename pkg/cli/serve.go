package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/safesight-lab/safesight/pkg/cli/config"
	httpctrl "github.com/safesight-lab/safesight/pkg/controller/http"
	"github.com/safesight-lab/safesight/pkg/domain/interfaces"
	"github.com/safesight-lab/safesight/pkg/repository/firestore"
	"github.com/safesight-lab/safesight/pkg/service/index"
	"github.com/safesight-lab/safesight/pkg/usecase"
	"github.com/safesight-lab/safesight/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var appCfg config.App
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var severityCfg config.Severity

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("SAFESIGHT_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, severityCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			formOptions, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load app config")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure LLM client")
			}

			severityModel, severityClose, err := severityCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure severity model")
			}
			defer severityClose()

			// The vector index shares the Firestore connection when the record
			// store runs on Firestore; other backends get an in-process index.
			var vecIndex interfaces.VectorIndex
			if fsRepo, ok := repo.(*firestore.Firestore); ok {
				vecIndex = index.NewFirestore(fsRepo.Client())
				logging.Default().Info("Using Firestore vector index")
			} else {
				vecIndex = index.NewMemory()
				logging.Default().Info("Using in-memory vector index")
			}

			uc := usecase.New(repo,
				usecase.WithLLM(llmClient),
				usecase.WithIndex(vecIndex),
				usecase.WithSeverityModel(severityModel),
				usecase.WithFormOptions(formOptions),
			)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
