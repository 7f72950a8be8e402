package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/osse101/LevelUp_Go/internal/level"
)

var levelCmd = &cobra.Command{
	Use:   "level <total_xp>",
	Short: "Show the level for a total XP amount",
	Long: `Convert cumulative XP into a level and the progress toward the next one.

Example:
  xpctl level 250
  xpctl level 250 --rules season2.json --json`,
	Args: cobra.ExactArgs(1),
	RunE: runLevel,
}

func runLevel(cmd *cobra.Command, args []string) error {
	totalXP, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("total_xp must be an integer: %q", args[0])
	}

	rules, err := loadRules()
	if err != nil {
		return err
	}

	progress, err := level.Calculate(totalXP, rules.Curve)
	if err != nil {
		return err
	}

	if outputJSON {
		return writeJSON(cmd.OutOrStdout(), progress)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Level:      %d\n", progress.Level)
	fmt.Fprintf(w, "Total XP:   %d\n", progress.TotalXP)
	fmt.Fprintf(w, "Next level: %d XP (%d to go)\n", progress.NextLevelXP, progress.XPToNext)
	fmt.Fprintf(w, "Progress:   %.1f%%\n", progress.Progress)
	return nil
}
