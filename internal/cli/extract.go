package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/reviewminer/reviewminer/internal/pipeline"
)

var (
	extractJSONPath string
	extractMDPath   string
	extractEvidence bool
	extractNoEnc    bool
	extractNoQA     bool
	extractVocab    string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract a structured record from one review document",
	Long: `Extract reads a review document (plain text or HTML) and emits the
structured extraction record as JSON.

Pass "-" or no argument to read the document from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractJSONPath, "json", "-", "write the JSON record to this file ('-' for stdout)")
	extractCmd.Flags().StringVar(&extractMDPath, "md", "", "also write a Markdown report to this file")
	extractCmd.Flags().BoolVar(&extractEvidence, "evidence", false, "include supporting sentences in the record")
	extractCmd.Flags().BoolVar(&extractNoEnc, "no-encoder", false, "skip dense retrieval, scan all sentences")
	extractCmd.Flags().BoolVar(&extractNoQA, "no-qa", false, "disable the QA backstop, rules only")
	extractCmd.Flags().StringVar(&extractVocab, "vocab", "", "vocabulary file (default: embedded vocabulary)")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	raw, err := readDocumentArg(args)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	cfg.Output.IncludeEvidence = cfg.Output.IncludeEvidence || extractEvidence
	if extractNoEnc {
		cfg.Encoder.Disabled = true
	}
	if extractNoQA {
		cfg.QA.Disabled = true
	}
	if extractVocab != "" {
		cfg.Vocabulary.Path = extractVocab
	}

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}
	defer func() { _ = p.Close() }()

	rec, err := p.Extract(cmd.Context(), raw)
	if err != nil {
		return err
	}

	renderer := pipeline.NewRenderer(os.Stdout)
	if err := renderer.RenderJSON(rec, extractJSONPath); err != nil {
		return err
	}
	if extractMDPath != "" {
		if err := renderer.RenderMarkdown(rec, extractMDPath); err != nil {
			return err
		}
	}
	// Summary to stderr when the record itself went to stdout.
	if extractJSONPath != "" && extractJSONPath != "-" {
		renderer.RenderSummary(rec)
	} else if verbose {
		pipeline.NewRenderer(os.Stderr).RenderSummary(rec)
	}
	return nil
}

// readDocumentArg reads the document from the file argument or stdin.
func readDocumentArg(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return string(data), nil
}
