// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yinhse00/SmartFinAI-sub003/internal/engine"
	"github.com/yinhse00/SmartFinAI-sub003/internal/regstore"
	"github.com/yinhse00/SmartFinAI-sub003/pkg/types"
)

var contextCmd = &cobra.Command{
	Use:   "context [query]",
	Short: "Show the regulatory context retrieved for a query",
	Long: `Context classifies the query, runs the retrieval strategies against
the corpus, and prints the ranked citation blocks that would ground an
answer, together with the selection reasoning. Identical queries against
an unchanged corpus print identical output.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runContext,
}

func runContext(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	store, err := regstore.NewStore(corpusConfigFromFlags(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	eng := engine.New(store, nil, engineConfig(cmd), os.Stderr)

	rc, err := eng.GetContext(context.Background(), query)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rc)
	}

	fmt.Println(rc.FormattedContext)
	fmt.Fprintf(os.Stderr, "\n%s\n", rc.Reasoning)
	return nil
}

// corpusConfigFromFlags builds the corpus config for commands outside the
// corpus command tree.
func corpusConfigFromFlags(cmd *cobra.Command) types.CorpusConfig {
	corpusDir, _ := cmd.Flags().GetString("corpus-dir")
	if corpusDir == "" {
		corpusDir = "corpus"
	}
	return types.CorpusConfig{CorpusDir: corpusDir}
}

// engineConfig assembles the engine configuration from flags.
func engineConfig(cmd *cobra.Command) types.EngineConfig {
	maxResults, _ := cmd.Flags().GetInt("max-results")
	return types.EngineConfig{
		Corpus:    corpusConfigFromFlags(cmd),
		Retrieval: types.RetrievalConfig{MaxResults: maxResults},
	}
}

func init() {
	contextCmd.Flags().String("corpus-dir", "corpus", "base directory for the corpus (contains entries/, index/)")
	contextCmd.Flags().Int("max-results", 10, "maximum number of context entries")
	contextCmd.Flags().Bool("json", false, "output the ranked context as JSON")

	rootCmd.AddCommand(contextCmd)
}
