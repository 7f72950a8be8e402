package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osse101/LevelUp_Go/internal/domain"
	"github.com/osse101/LevelUp_Go/internal/level"
	"github.com/osse101/LevelUp_Go/internal/xp"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Score a hypothetical activity",
	Long: `Score an activity with the given modifiers and print the breakdown.

The base XP comes from --base, or from the catalog entry named by --activity.

Example:
  xpctl simulate --base 10 --difficulty medium
  xpctl simulate --activity fix_bug --difficulty hard --class-aligned --first-time --social
  xpctl simulate --base 10 --difficulty medium --current-xp 95`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

var (
	simBase         int64
	simActivity     string
	simDifficulty   string
	simClassAligned bool
	simFirstTime    bool
	simSocial       bool
	simCurrentXP    int64
)

func init() {
	simulateCmd.Flags().Int64Var(&simBase, "base", -1, "Base XP of the activity")
	simulateCmd.Flags().StringVar(&simActivity, "activity", "", "Catalog activity to take the base XP from")
	simulateCmd.Flags().StringVar(&simDifficulty, "difficulty", string(domain.DifficultyEasy), "Difficulty: easy, medium or hard")
	simulateCmd.Flags().BoolVar(&simClassAligned, "class-aligned", false, "Activity matches the profile's class")
	simulateCmd.Flags().BoolVar(&simFirstTime, "first-time", false, "First time combination bonus applies")
	simulateCmd.Flags().BoolVar(&simSocial, "social", false, "Social proof bonus applies")
	simulateCmd.Flags().Int64Var(&simCurrentXP, "current-xp", -1, "Profile total XP before the award, to report level changes")
	simulateCmd.MarkFlagsMutuallyExclusive("base", "activity")
}

type simulateOutput struct {
	Activity     string                      `json:"activity,omitempty"`
	Result       *domain.XPCalculationResult `json:"result"`
	Progress     *domain.LevelProgress       `json:"progress,omitempty"`
	LevelsGained int64                       `json:"levels_gained,omitempty"`
}

func runSimulate(cmd *cobra.Command, args []string) error {
	rules, err := loadRules()
	if err != nil {
		return err
	}

	difficulty, err := domain.ParseDifficulty(simDifficulty)
	if err != nil {
		return err
	}

	base := simBase
	switch {
	case simActivity != "":
		base, err = rules.Catalog.Lookup(simActivity)
		if err != nil {
			return err
		}
	case base < 0:
		return fmt.Errorf("one of --base or --activity is required")
	}

	result, err := xp.Calculate(domain.XPCalculationInput{
		Base:           base,
		Difficulty:     difficulty,
		ClassAligned:   simClassAligned,
		FirstTimeCombo: simFirstTime,
		SocialProof:    simSocial,
	}, rules.Rules)
	if err != nil {
		return err
	}

	out := simulateOutput{Activity: simActivity, Result: result}
	if simCurrentXP >= 0 {
		after := simCurrentXP + result.Total
		if out.Progress, err = level.Calculate(after, rules.Curve); err != nil {
			return err
		}
		if out.LevelsGained, err = level.LevelsGained(simCurrentXP, after, rules.Curve); err != nil {
			return err
		}
	}

	if outputJSON {
		return writeJSON(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "XP Breakdown")
	fmt.Fprintln(w, "------------")
	for _, e := range result.Breakdown.Entries() {
		if e.Name == domain.BreakdownBase {
			fmt.Fprintf(w, "%-16s %d\n", label(e.Name)+":", int64(e.Value))
			continue
		}
		fmt.Fprintf(w, "%-16s x%g\n", label(e.Name)+":", e.Value)
	}
	fmt.Fprintf(w, "%-16s x%g\n", "Multiplier:", result.Multiplier)
	fmt.Fprintf(w, "%-16s %d\n", "Total XP:", result.Total)

	if out.Progress != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Level %d (%d XP to next)", out.Progress.Level, out.Progress.XPToNext)
		if out.LevelsGained > 0 {
			fmt.Fprintf(w, ", %d level(s) gained", out.LevelsGained)
		}
		fmt.Fprintln(w)
	}
	return nil
}
