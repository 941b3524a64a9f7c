package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/safesight-lab/safesight/pkg/cli/config"
)

func cmdRetrain() *cli.Command {
	var severityCfg config.Severity

	return &cli.Command{
		Name:  "retrain",
		Usage: "Rebuild the severity model from the training table and print metrics",
		Flags: severityCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			severityModel, severityClose, err := severityCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure severity model")
			}
			defer severityClose()
			if severityModel == nil {
				return goerr.New("bigquery-project-id is required for retraining")
			}

			metrics, err := severityModel.Retrain(ctx)
			if err != nil {
				return err
			}

			w := os.Stdout
			color.New(color.FgGreen, color.Bold).Fprintln(w, "Severity model retrained")
			fmt.Fprintf(w, "  rows:      %d\n", metrics.RowCount)
			fmt.Fprintf(w, "  recall:    %.4f\n", metrics.Recall)
			fmt.Fprintf(w, "  precision: %.4f\n", metrics.Precision)
			fmt.Fprintf(w, "  f1:        %.4f\n", metrics.F1)
			return nil
		},
	}
}
