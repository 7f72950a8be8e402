package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/LevelUp_Go/internal/ruleset"
)

var (
	cfgRulesPath string
	outputJSON   bool
)

var rootCmd = &cobra.Command{
	Use:   "xpctl",
	Short: "xpctl - XP rules and level progression tool",
	Long: `xpctl runs the XP engine locally.

It scores hypothetical activities, converts total XP to a level, and
validates rules documents before they are uploaded as rulesets.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgRulesPath, "rules", "", "Path to a rules JSON document (default: built-in rules)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Print machine-readable JSON")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(levelCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadRules compiles the document named by --rules, or the built-in defaults
func loadRules() (*ruleset.Compiled, error) {
	if cfgRulesPath == "" {
		return ruleset.DefaultDocument().Compile()
	}
	return compileFile(cfgRulesPath)
}

func compileFile(path string) (*ruleset.Compiled, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	doc, err := ruleset.Parse(data)
	if err != nil {
		return nil, err
	}
	return doc.Compile()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var titleCaser = cases.Title(language.English)

// label turns a snake_case key into a display label
func label(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}
