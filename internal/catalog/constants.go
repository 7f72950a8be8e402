package catalog

// Activity keys of the stock catalog
const (
	ActivityReadDoc          = "read_doc"
	ActivityImplementUtility = "implement_utility"
	ActivityCompleteTutorial = "complete_tutorial"
	ActivityShipMVPLocal     = "ship_mvp_local"
	ActivityDeployMVP        = "deploy_mvp"
	ActivityWritePost        = "write_post"
	ActivityGetDMLead        = "get_dm_lead"
	ActivityBookMeeting      = "book_meeting"
	ActivityClosePilot       = "close_pilot"
	ActivityPublishDemo      = "publish_demo"
	ActivityRunEvaluation    = "run_evaluation"
	ActivityFixBug           = "fix_bug"
)

// Event tags that map onto catalog activities
const (
	TagTutorial = "tutorial"
	TagDeploy   = "deploy"
	TagPost     = "post"
	TagBug      = "bug"
)

// DefaultEventBaseXP is awarded for an event whose tags match no activity
const DefaultEventBaseXP = 15
