package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reviewminer/reviewminer/internal/vocab"
)

// vocabCmd represents the vocab command
var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Inspect vocabulary files",
}

var vocabCheckCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate a vocabulary file",
	Long: `Check loads a vocabulary YAML file, compiles every alias pattern and
reports the entry counts. Without an argument it checks the embedded
vocabulary.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			reg *vocab.Registry
			err error
		)
		if len(args) == 0 {
			reg, err = vocab.LoadDefault()
		} else {
			reg, err = vocab.LoadFile(args[0])
		}
		if err != nil {
			return err
		}

		fmt.Printf("countries:       %d\n", reg.Countries.Len())
		fmt.Printf("regions:         %d\n", reg.Regions.Len())
		fmt.Printf("databases:       %d\n", reg.Databases.Len())
		fmt.Printf("diseases:        %d\n", reg.Diseases.Len())
		fmt.Printf("vaccine options: %d\n", reg.VaccineOptions.Len())
		fmt.Printf("topics:          %d\n", reg.Topics.Len())
		fmt.Printf("outcomes:        %d\n", reg.Outcomes.Len())
		fmt.Printf("age groups:      %d\n", reg.AgeGroups.Len())
		fmt.Printf("specific groups: %d\n", reg.SpecificGroups.Len())
		fmt.Printf("immune status:   %d\n", reg.ImmuneStatus.Len())
		fmt.Println("✓ vocabulary OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vocabCmd)
	vocabCmd.AddCommand(vocabCheckCmd)
}
