package webpath

const (
	Home = "/"

	Api              = "/api"
	ApiPlayers       = Api + "/players"
	ApiPlayer        = ApiPlayers + "/:id"
	ApiPlayerMatches = ApiPlayer + "/matches"
	ApiMatches       = Api + "/matches"
	ApiMatch         = ApiMatches + "/:id"
	ApiHeadToHead    = Api + "/head-to-head"
	ApiRecalculate   = Api + "/recalculate"
	ApiExport        = Api + "/export"
	ApiImport        = Api + "/import"
)

func Path() map[string]string {
	return map[string]string{
		"Api":           Api,
		"Players":       ApiPlayers,
		"Player":        ApiPlayer,
		"PlayerMatches": ApiPlayerMatches,
		"Matches":       ApiMatches,
		"Match":         ApiMatch,
		"HeadToHead":    ApiHeadToHead,
		"Recalculate":   ApiRecalculate,
		"Export":        ApiExport,
		"Import":        ApiImport,
	}
}
