// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yinhse00/SmartFinAI-sub003/internal/answer"
	"github.com/yinhse00/SmartFinAI-sub003/internal/engine"
	"github.com/yinhse00/SmartFinAI-sub003/internal/regstore"
)

const defaultModel = "claude-sonnet-4-5-20250929"

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Answer a regulatory question end to end",
	Long: `Ask runs the full pipeline: retrieve the relevant provisions from the
corpus, draft a grounded answer through the Claude API, and check the draft
for completeness. The verdict is reported alongside the answer; an
incomplete draft is still printed.

Requires an Anthropic API key in .secrets/anthropic-api-key or via
--api-key.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	apiKeyFlag, _ := cmd.Flags().GetString("api-key")
	apiKey := secretDefault("anthropic-api-key", apiKeyFlag)
	if apiKey == "" {
		return fmt.Errorf("no Anthropic API key: create .secrets/anthropic-api-key or pass --api-key")
	}

	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("answer.model")
	}
	if model == "" {
		model = defaultModel
	}

	store, err := regstore.NewStore(corpusConfigFromFlags(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	generator := &answer.ClaudeBackend{
		APIKey:     apiKey,
		Model:      model,
		MaxRetries: maxRetries,
	}

	eng := engine.New(store, generator, engineConfig(cmd), os.Stderr)

	ans, err := eng.Ask(context.Background(), query)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ans)
	}

	fmt.Println(ans.Text)
	fmt.Fprintln(os.Stderr)
	printVerdict(os.Stderr, ans.Verdict)

	if save, _ := cmd.Flags().GetBool("save"); save {
		outputDir, _ := cmd.Flags().GetString("output-dir")
		path, err := answer.Save(outputDir, query, ans.Text)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved to %s\n", path)
	}
	return nil
}

func init() {
	askCmd.Flags().String("api-key", "", "Anthropic API key (overrides .secrets/anthropic-api-key)")
	askCmd.Flags().String("model", "", "AI model identifier for answer generation")
	askCmd.Flags().Int("max-retries", 0, "retry attempts for rate-limited API calls")
	askCmd.Flags().String("corpus-dir", "corpus", "base directory for the corpus (contains entries/, index/)")
	askCmd.Flags().Int("max-results", 10, "maximum number of context entries")
	askCmd.Flags().Bool("save", false, "save the answer under --output-dir")
	askCmd.Flags().String("output-dir", "output/answers", "directory for saved answers")
	askCmd.Flags().Bool("json", false, "output the full answer record as JSON")

	rootCmd.AddCommand(askCmd)
}
