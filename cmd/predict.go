package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/saqibullah/heart-disease-predictor/internal/classifier"
	"github.com/saqibullah/heart-disease-predictor/internal/features"
	"github.com/saqibullah/heart-disease-predictor/internal/i18n"
	"github.com/saqibullah/heart-disease-predictor/internal/prediction"
	"github.com/saqibullah/heart-disease-predictor/internal/validation"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict from a JSON submission without starting the server",
	Long:  "predict reads a JSON object with the 14 form fields from --input (or stdin) and prints the result as JSON: the label, the probability when the model has one, and the model used. Rejected submissions print the same error JSON /api/predict returns.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		registry, err := classifier.LoadRegistry(cfg.Models.Dir, features.Count)
		if err != nil {
			return fmt.Errorf("load models: %w", err)
		}

		in := cmd.InOrStdin()
		if path, _ := cmd.Flags().GetString("input"); path != "" && path != "-" {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer f.Close()
			in = f
		}
		return runPredict(cmd.Context(), prediction.NewService(registry), in, cmd.OutOrStdout())
	},
}

func init() {
	predictCmd.Flags().StringP("input", "i", "-", "JSON file with the submission, - for stdin")
}

// errRejected signals that the output already describes why no prediction
// was made.
var errRejected = errors.New("submission rejected")

func runPredict(ctx context.Context, svc *prediction.Service, in io.Reader, out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	sub, err := validation.DecodeJSON(in)
	if err != nil {
		return err
	}
	res, fieldErrs, err := svc.Run(ctx, sub)
	switch {
	case len(fieldErrs) > 0:
		if err := enc.Encode(map[string]any{"error": fieldErrs.Messages()}); err != nil {
			return err
		}
		return errRejected
	case errors.Is(err, prediction.ErrUnknownModel):
		if err := enc.Encode(map[string]any{"error": i18n.MsgInvalidModel}); err != nil {
			return err
		}
		return errRejected
	case err != nil:
		return err
	}
	return enc.Encode(res)
}
