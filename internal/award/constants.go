package award

// Log messages
const (
	LogMsgScored         = "XP scored"
	LogMsgScoreRejected  = "XP calculation rejected"
	LogMsgActivityLogged  = "Activity recorded for novelty history"
	LogMsgLevelUp        = "Level up"
)
