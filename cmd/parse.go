package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jangbu-dev/jangbu/engine"
	"github.com/jangbu-dev/jangbu/engine/common"
)

var parseRulesFile string

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse statement file(s)",
	Long: `Parses a statement file or every file in a folder. Each file runs
through the bank layout detectors and, failing those, the header guesser.
Results are printed as JSON on stdout.`,
	Run: handler,
}

func handler(cmd *cobra.Command, args []string) {
	target := viper.GetString("target")

	ruleList, err := loadRulesFile(parseRulesFile)
	if err != nil {
		log.Fatal(err)
	}

	engine.ExecuteAgainstPath(target, ruleList)
}

// loadRulesFile reads classification rules from a JSON file. The file holds
// an array sorted by priority; an empty path yields no rules, which leaves
// every row on the default category.
func loadRulesFile(path string) ([]common.Rule, error) {
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	var ruleList []common.Rule
	if err := json.Unmarshal(content, &ruleList); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}
	return ruleList, nil
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringP("folder", "f", ".", "File or folder to parse")
	parseCmd.Flags().StringVarP(&parseRulesFile, "rules", "r", "", "JSON file with classification rules")
	viper.BindPFlag("target", parseCmd.Flags().Lookup("folder"))
}
