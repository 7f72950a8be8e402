// Package catalog resolves activities and event tags to base XP.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/osse101/LevelUp_Go/internal/domain"
)

// TagRule maps an event tag to a catalog activity. Rules are checked in order.
type TagRule struct {
	Tag      string `json:"tag"`
	Activity string `json:"activity"`
}

// Catalog is the base XP table of a ruleset
type Catalog struct {
	BaseXP        map[string]int64
	TagRules      []TagRule
	DefaultBaseXP int64
}

// Default returns the stock catalog
func Default() Catalog {
	return Catalog{
		BaseXP: map[string]int64{
			ActivityReadDoc:          5,
			ActivityImplementUtility: 15,
			ActivityCompleteTutorial: 20,
			ActivityShipMVPLocal:     35,
			ActivityDeployMVP:        50,
			ActivityWritePost:        15,
			ActivityGetDMLead:        40,
			ActivityBookMeeting:      60,
			ActivityClosePilot:       120,
			ActivityPublishDemo:      20,
			ActivityRunEvaluation:    30,
			ActivityFixBug:           30,
		},
		TagRules:      DefaultTagRules(),
		DefaultBaseXP: DefaultEventBaseXP,
	}
}

// DefaultTagRules returns the stock tag priority: tutorial, deploy, post, bug
func DefaultTagRules() []TagRule {
	return []TagRule{
		{Tag: TagTutorial, Activity: ActivityCompleteTutorial},
		{Tag: TagDeploy, Activity: ActivityDeployMVP},
		{Tag: TagPost, Activity: ActivityWritePost},
		{Tag: TagBug, Activity: ActivityFixBug},
	}
}

// Validate checks the catalog is internally consistent
func (c Catalog) Validate() error {
	var problems []string

	keys := make([]string, 0, len(c.BaseXP))
	for k := range c.BaseXP {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			problems = append(problems, "catalog contains an empty activity key")
		}
		if c.BaseXP[k] < 0 {
			problems = append(problems, fmt.Sprintf("activity %q has negative base XP %d", k, c.BaseXP[k]))
		}
	}
	for _, r := range c.TagRules {
		if _, ok := c.BaseXP[r.Activity]; !ok {
			problems = append(problems, fmt.Sprintf("tag %q maps to unknown activity %q", r.Tag, r.Activity))
		}
	}
	if c.DefaultBaseXP < 0 {
		problems = append(problems, fmt.Sprintf("default base XP must not be negative (got %d)", c.DefaultBaseXP))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: catalog: %s", domain.ErrInvalidRuleset, strings.Join(problems, "; "))
	}
	return nil
}

// Lookup returns the base XP of an activity
func (c Catalog) Lookup(activity string) (int64, error) {
	xp, ok := c.BaseXP[activity]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrActivityNotFound, activity)
	}
	return xp, nil
}

// ResolveTags returns the base XP for an event's tags: the activity of the first
// matching tag rule, or DefaultBaseXP when none match.
func (c Catalog) ResolveTags(tags []string) (int64, string) {
	present := make(map[string]bool, len(tags))
	for _, t := range tags {
		present[strings.ToLower(strings.TrimSpace(t))] = true
	}
	for _, r := range c.TagRules {
		if !present[r.Tag] {
			continue
		}
		if xp, ok := c.BaseXP[r.Activity]; ok {
			return xp, r.Activity
		}
	}
	return c.DefaultBaseXP, ""
}
