// Package ruleset parses, validates and serves the admin rules documents that
// configure XP scoring and level progression.
package ruleset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/LevelUp_Go/internal/catalog"
	"github.com/osse101/LevelUp_Go/internal/domain"
	"github.com/osse101/LevelUp_Go/internal/level"
	"github.com/osse101/LevelUp_Go/internal/xp"
)

// Document is the JSON shape of rules_json. Pointer fields distinguish a
// missing key from a zero value.
type Document struct {
	LevelCurve    *CurveSection      `json:"levelCurve"`
	BaseXPCatalog map[string]int64   `json:"baseXPCatalog"`
	TagActivities []catalog.TagRule  `json:"tagActivities,omitempty"`
	DefaultXP     *int64             `json:"defaultEventXP,omitempty"`
	Multipliers   *MultiplierSection `json:"multipliers"`
	Streaks       *StreakSection     `json:"streaks,omitempty"`
	Store         *StoreSection      `json:"store,omitempty"`
}

type CurveSection struct {
	BaseXP    *int64 `json:"baseXP"`
	Increment *int64 `json:"increment"`
}

type MultiplierSection struct {
	Difficulty     map[string]float64 `json:"difficulty"`
	ClassAlignment *float64           `json:"classAlignment"`
	Novelty        *NoveltyRule       `json:"novelty"`
	SocialProof    *float64           `json:"socialProof"`
}

// NoveltyRule is the first-time combination bonus. In a document it may be
// written as an object or as a bare coefficient, which implies the default window.
type NoveltyRule struct {
	Bonus      float64 `json:"bonus"`
	WindowDays int     `json:"windowDays"`
}

// UnmarshalJSON accepts either {"bonus": 1.1, "windowDays": 30} or 1.1
func (n *NoveltyRule) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] != '{' {
		var bonus float64
		if err := json.Unmarshal(trimmed, &bonus); err != nil {
			return fmt.Errorf("novelty must be a number or an object: %w", err)
		}
		n.Bonus = bonus
		n.WindowDays = DefaultNoveltyWindowDays
		return nil
	}

	type plain NoveltyRule
	aux := plain{WindowDays: DefaultNoveltyWindowDays}
	if err := json.Unmarshal(trimmed, &aux); err != nil {
		return err
	}
	*n = NoveltyRule(aux)
	return nil
}

type StreakSection struct {
	FreezeLimit int `json:"freezeLimit"`
	GraceDays   int `json:"graceDays"`
}

type StoreSection struct {
	DefaultCooldown int `json:"defaultCooldown"`
}

// Compiled is a validated document converted into the engine's types.
// RulesetID is nil for the built-in defaults.
type Compiled struct {
	RulesetID           *uuid.UUID
	Name                string
	Rules               xp.Ruleset
	Curve               level.Curve
	Catalog             catalog.Catalog
	Streaks             StreakSection
	DefaultCooldownDays int
}

// Parse decodes rules_json. Unknown keys are rejected so that typos surface
// instead of silently falling back to defaults.
func Parse(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: malformed rules JSON: %v", domain.ErrInvalidRuleset, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: malformed rules JSON: trailing data after document", domain.ErrInvalidRuleset)
	}
	return &doc, nil
}

// DefaultDocument returns the stock rules document
func DefaultDocument() *Document {
	curve := level.DefaultCurve()
	rules := xp.DefaultRuleset()
	cat := catalog.Default()

	difficulty := make(map[string]float64, len(rules.Difficulty))
	for d, v := range rules.Difficulty {
		difficulty[string(d)] = v
	}
	baseXP := make(map[string]int64, len(cat.BaseXP))
	for k, v := range cat.BaseXP {
		baseXP[k] = v
	}
	defaultXP := cat.DefaultBaseXP

	return &Document{
		LevelCurve:    &CurveSection{BaseXP: &curve.BaseXP, Increment: &curve.Increment},
		BaseXPCatalog: baseXP,
		TagActivities: catalog.DefaultTagRules(),
		DefaultXP:     &defaultXP,
		Multipliers: &MultiplierSection{
			Difficulty:     difficulty,
			ClassAlignment: &rules.ClassAlignment,
			Novelty:        &NoveltyRule{Bonus: rules.Novelty, WindowDays: DefaultNoveltyWindowDays},
			SocialProof:    &rules.SocialProof,
		},
		Streaks: &StreakSection{FreezeLimit: DefaultStreakFreezeLimit, GraceDays: DefaultStreakGraceDays},
		Store:   &StoreSection{DefaultCooldown: DefaultRewardCooldownDays},
	}
}

// Marshal encodes the document as indented rules_json
func (d *Document) Marshal() (json.RawMessage, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Validate reports every missing or invalid key in a single ErrInvalidRuleset
func (d *Document) Validate() error {
	_, err := d.Compile()
	return err
}

// Compile validates the document and converts it to engine types
func (d *Document) Compile() (*Compiled, error) {
	var problems []string
	missing := func(key string) {
		problems = append(problems, fmt.Sprintf("missing %s", key))
	}

	var curve level.Curve
	switch {
	case d.LevelCurve == nil:
		missing("levelCurve")
	default:
		if d.LevelCurve.BaseXP == nil {
			missing("levelCurve.baseXP")
		} else {
			curve.BaseXP = *d.LevelCurve.BaseXP
		}
		if d.LevelCurve.Increment == nil {
			missing("levelCurve.increment")
		} else {
			curve.Increment = *d.LevelCurve.Increment
		}
		if d.LevelCurve.BaseXP != nil && d.LevelCurve.Increment != nil {
			problems = appendProblem(problems, curve.Validate())
		}
	}

	var cat catalog.Catalog
	if d.BaseXPCatalog == nil {
		missing("baseXPCatalog")
	} else {
		cat = d.catalog()
		problems = appendProblem(problems, cat.Validate())
	}

	rules := xp.DefaultRuleset()
	if d.Multipliers == nil {
		missing("multipliers")
	} else {
		m := d.Multipliers
		if m.Difficulty == nil {
			missing("multipliers.difficulty")
		} else {
			rules.Difficulty = make(map[domain.Difficulty]float64, len(m.Difficulty))
			for k, v := range m.Difficulty {
				rules.Difficulty[domain.Difficulty(k)] = v
			}
		}
		if m.ClassAlignment == nil {
			missing("multipliers.classAlignment")
		} else {
			rules.ClassAlignment = *m.ClassAlignment
		}
		if m.Novelty == nil {
			missing("multipliers.novelty")
		} else {
			rules.Novelty = m.Novelty.Bonus
			rules.NoveltyWindow = time.Duration(m.Novelty.WindowDays) * 24 * time.Hour
		}
		if m.SocialProof == nil {
			missing("multipliers.socialProof")
		} else {
			rules.SocialProof = *m.SocialProof
		}
		if m.Difficulty != nil && m.ClassAlignment != nil && m.Novelty != nil && m.SocialProof != nil {
			problems = appendProblem(problems, rules.Validate())
		}
	}

	streaks := StreakSection{FreezeLimit: DefaultStreakFreezeLimit, GraceDays: DefaultStreakGraceDays}
	if d.Streaks != nil {
		streaks = *d.Streaks
		if streaks.FreezeLimit < 0 {
			problems = append(problems, fmt.Sprintf("streaks.freezeLimit must not be negative (got %d)", streaks.FreezeLimit))
		}
		if streaks.GraceDays < 0 {
			problems = append(problems, fmt.Sprintf("streaks.graceDays must not be negative (got %d)", streaks.GraceDays))
		}
	}

	cooldown := DefaultRewardCooldownDays
	if d.Store != nil {
		cooldown = d.Store.DefaultCooldown
		if cooldown < 0 {
			problems = append(problems, fmt.Sprintf("store.defaultCooldown must not be negative (got %d)", cooldown))
		}
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidRuleset, strings.Join(problems, "; "))
	}

	return &Compiled{
		Rules:               rules,
		Curve:               curve,
		Catalog:             cat,
		Streaks:             streaks,
		DefaultCooldownDays: cooldown,
	}, nil
}

// catalog builds the activity catalog. Without explicit tag rules, the stock
// rules whose activity exists in this catalog apply.
func (d *Document) catalog() catalog.Catalog {
	cat := catalog.Catalog{
		BaseXP:        make(map[string]int64, len(d.BaseXPCatalog)),
		DefaultBaseXP: catalog.DefaultEventBaseXP,
	}
	for k, v := range d.BaseXPCatalog {
		cat.BaseXP[k] = v
	}
	if d.DefaultXP != nil {
		cat.DefaultBaseXP = *d.DefaultXP
	}

	if d.TagActivities != nil {
		cat.TagRules = make([]catalog.TagRule, 0, len(d.TagActivities))
		for _, r := range d.TagActivities {
			cat.TagRules = append(cat.TagRules, catalog.TagRule{
				Tag:      strings.ToLower(strings.TrimSpace(r.Tag)),
				Activity: r.Activity,
			})
		}
		return cat
	}

	for _, r := range catalog.DefaultTagRules() {
		if _, ok := cat.BaseXP[r.Activity]; ok {
			cat.TagRules = append(cat.TagRules, r)
		}
	}
	return cat
}

// appendProblem unwraps a nested ErrInvalidRuleset into its detail text
func appendProblem(problems []string, err error) []string {
	if err == nil {
		return problems
	}
	msg := strings.TrimPrefix(err.Error(), domain.ErrMsgInvalidRuleset+": ")
	return append(problems, msg)
}

// ActivityNames lists the catalog keys in sorted order
func (c *Compiled) ActivityNames() []string {
	names := make([]string, 0, len(c.Catalog.BaseXP))
	for k := range c.Catalog.BaseXP {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
