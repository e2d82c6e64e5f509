// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yinhse00/SmartFinAI-sub003/internal/validate"
	"github.com/yinhse00/SmartFinAI-sub003/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a drafted answer for completeness",
	Long: `Validate runs truncation checks and the query-type checklist over an
answer read from a file (or stdin when no file is given). The verdict lists
every missing element with a confidence tier.

With --strict the command exits non-zero when the answer is incomplete.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("reading answer: %w", err)
	}

	queryType, _ := cmd.Flags().GetString("query-type")
	v := validate.New(types.ValidationConfig{})
	verdict := v.Validate(string(data), types.ParseQueryType(queryType))

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(verdict); err != nil {
			return err
		}
	} else {
		printVerdict(os.Stdout, verdict)
	}

	strict, _ := cmd.Flags().GetBool("strict")
	if strict && !verdict.IsComplete {
		return fmt.Errorf("answer is incomplete (%d findings)", len(verdict.MissingElements))
	}
	return nil
}

func printVerdict(w io.Writer, verdict types.CompletenessVerdict) {
	if verdict.IsComplete {
		fmt.Fprintf(w, "complete (confidence: %s)\n", verdict.Confidence)
		return
	}

	fmt.Fprintf(w, "incomplete (confidence: %s)\n", verdict.Confidence)
	if verdict.IsTruncated {
		fmt.Fprintln(w, "the answer appears truncated")
	}
	for _, m := range verdict.MissingElements {
		fmt.Fprintf(w, "  - %s\n", m)
	}
}

func init() {
	validateCmd.Flags().String("query-type", "", "query type for the domain checklist (rights-issue, open-offer, takeover-offer, whitewash, trading-arrangement)")
	validateCmd.Flags().Bool("json", false, "output the verdict as JSON")
	validateCmd.Flags().Bool("strict", false, "exit non-zero when the answer is incomplete")

	rootCmd.AddCommand(validateCmd)
}
