package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/safesight-lab/safesight/pkg/cli/config"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/usecase"
	"github.com/safesight-lab/safesight/pkg/utils/logging"
)

func cmdCluster() *cli.Command {
	var k int
	var selectK bool
	var repoCfg config.Repository
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "k",
			Usage:       "Cluster count (0 uses the default)",
			Sources:     cli.EnvVars("SAFESIGHT_CLUSTER_K"),
			Destination: &k,
		},
		&cli.BoolFlag{
			Name:        "select-k",
			Usage:       "Pick the cluster count by silhouette score instead of the default",
			Destination: &selectK,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:    "cluster",
		Aliases: []string{"c"},
		Usage:   "Run incident clustering once and print the report",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
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

			uc := usecase.NewClusteringUseCase(repo, llmClient)
			result, err := uc.Run(ctx, usecase.RunOptions{K: k, SelectK: selectK})
			if err != nil {
				return err
			}

			printClusteringReport(result)
			return nil
		},
	}
}

func printClusteringReport(result *model.ClusteringResult) {
	w := os.Stdout
	header := color.New(color.FgCyan, color.Bold)
	warn := color.New(color.FgYellow)
	title := color.New(color.FgGreen, color.Bold)

	header.Fprintf(w, "Clustering complete: %d clusters\n\n", result.K)

	if len(result.SilhouetteByK) > 0 {
		header.Fprintln(w, "Silhouette scores")
		for k, score := range result.SilhouetteByK {
			fmt.Fprintf(w, "  k=%d: %.4f\n", k, score)
		}
		fmt.Fprintln(w)
	}

	for _, row := range result.Matrix {
		theme := result.Themes[row.ClusterID]
		title.Fprintf(w, "Cluster %d", row.ClusterID+1)
		if theme != nil {
			title.Fprintf(w, ": %s", theme.Title)
		}
		fmt.Fprintln(w)

		fmt.Fprintf(w, "  cases=%d  high_risk=%.1f%%  high_severity=%.1f%%  reactivity=%.1f\n",
			row.NCases, row.HighRiskPct, row.HighSeverityPct, row.ReactivityScore)

		if theme != nil {
			for _, bullet := range theme.Summary {
				fmt.Fprintf(w, "  - %s\n", bullet)
			}
		}
		if owners := result.TopOwners[row.ClusterID]; len(owners) > 0 {
			fmt.Fprint(w, "  top owners:")
			for _, owner := range owners {
				fmt.Fprintf(w, " %s(%d)", owner.Owner, owner.Actions)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}

	if result.OrphanedActions > 0 {
		warn.Fprintf(w, "%d corrective actions did not match any incident\n", result.OrphanedActions)
	}
}
