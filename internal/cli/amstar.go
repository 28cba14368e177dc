package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/reviewminer/reviewminer/internal/model"
	"github.com/reviewminer/reviewminer/internal/pipeline"
)

var (
	amstarJSONPath   string
	amstarReviewDate string
	amstarNoQA       bool
	amstarVocab      string
)

// amstarCmd represents the amstar command
var amstarCmd = &cobra.Command{
	Use:   "amstar [file]",
	Short: "Appraise a review against the AMSTAR-2 checklist subset",
	Long: `Amstar evaluates the review against a subset of AMSTAR-2 items and
derives an overall confidence label (High, Moderate, Low, Critically Low).

--review-date is required: it anchors the search-recency check on item 4.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAmstar,
}

func init() {
	amstarCmd.Flags().StringVar(&amstarJSONPath, "json", "", "write the JSON verdict to this file ('-' for stdout)")
	amstarCmd.Flags().StringVar(&amstarReviewDate, "review-date", "", "review publication date, YYYY-MM-DD (required)")
	amstarCmd.Flags().BoolVar(&amstarNoQA, "no-qa", false, "disable the QA answerer, rules only")
	amstarCmd.Flags().StringVar(&amstarVocab, "vocab", "", "vocabulary file (default: embedded vocabulary)")

	rootCmd.AddCommand(amstarCmd)
}

func runAmstar(cmd *cobra.Command, args []string) error {
	raw, err := readDocumentArg(args)
	if err != nil {
		return err
	}

	if amstarReviewDate == "" {
		return fmt.Errorf("%w: pass --review-date YYYY-MM-DD", model.ErrReviewDateRequired)
	}
	reviewDate, err := time.Parse("2006-01-02", amstarReviewDate)
	if err != nil {
		return fmt.Errorf("parse --review-date: %w", err)
	}

	cfg := loadConfig()
	cfg.Encoder.Disabled = true // the evaluator reads full text, no retrieval
	if amstarNoQA {
		cfg.QA.Disabled = true
	}
	if amstarVocab != "" {
		cfg.Vocabulary.Path = amstarVocab
	}

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}
	defer func() { _ = p.Close() }()

	verdict, err := p.EvaluateAmstar(cmd.Context(), raw, reviewDate)
	if err != nil {
		return err
	}

	renderer := pipeline.NewRenderer(os.Stdout)
	if amstarJSONPath != "" {
		return renderer.RenderJSON(verdict, amstarJSONPath)
	}
	renderer.RenderVerdict(verdict)
	return nil
}
