package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osse101/LevelUp_Go/internal/ruleset"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and validate rules documents",
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a rules JSON document",
	Long: `Parse and compile a rules document, reporting every problem at once.

Example:
  xpctl rules validate season2.json`,
	Args: cobra.ExactArgs(1),
	RunE: runRulesValidate,
}

var rulesDefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the built-in rules document",
	Long: `Print the built-in rules as JSON, a starting point for a new ruleset.

Example:
  xpctl rules defaults > season2.json`,
	Args: cobra.NoArgs,
	RunE: runRulesDefaults,
}

func init() {
	rulesCmd.AddCommand(rulesValidateCmd)
	rulesCmd.AddCommand(rulesDefaultsCmd)
}

type validateOutput struct {
	Valid      bool     `json:"valid"`
	Error      string   `json:"error,omitempty"`
	Activities []string `json:"activities,omitempty"`
}

func runRulesValidate(cmd *cobra.Command, args []string) error {
	compiled, err := compileFile(args[0])

	if outputJSON {
		out := validateOutput{Valid: err == nil}
		if err != nil {
			out.Error = err.Error()
		} else {
			out.Activities = compiled.ActivityNames()
		}
		if encErr := writeJSON(cmd.OutOrStdout(), out); encErr != nil {
			return encErr
		}
		return err
	}

	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s is valid\n", args[0])
	fmt.Fprintf(w, "Activities: %d\n", len(compiled.ActivityNames()))
	for _, name := range compiled.ActivityNames() {
		fmt.Fprintf(w, "  - %s\n", name)
	}
	return nil
}

func runRulesDefaults(cmd *cobra.Command, args []string) error {
	data, err := ruleset.DefaultDocument().Marshal()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
