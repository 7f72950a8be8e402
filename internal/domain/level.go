package domain

// LevelProgress is where a cumulative XP total sits on the level curve
type LevelProgress struct {
	Level        int64   `json:"level"`
	XPToNext     int64   `json:"xp_to_next"`
	Progress     float64 `json:"progress"` // percent of the current level completed, 0-100
	TotalXP      int64   `json:"total_xp"`
	LevelStartXP int64   `json:"level_start_xp"`
	NextLevelXP  int64   `json:"next_level_xp"`
}
