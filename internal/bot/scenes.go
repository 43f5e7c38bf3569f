package bot

import "cdrbot/internal/models"

// ReportScene is one report entry of the main menu.
type ReportScene struct {
	Name string
	// DaysAgo selects the day for full reports.
	DaysAgo int
	// MissedOnly switches to today's unanswered calls rendered as a flat list.
	MissedOnly bool
	Header     string
	NoCalls    string
	// MenuEntry is the lower-case label used in "Повторить ..." and word commands.
	MenuEntry   string
	Description string
	Words       []string
}

var reportScenes = []ReportScene{
	{
		Name:        models.SceneMissed,
		MissedOnly:  true,
		Header:      "Пропущенные сегодня:",
		NoCalls:     "Сегодня еще не было пропущенных звонков",
		MenuEntry:   "пропущенные звонки",
		Description: "Пропущенные сегодня звонки",
		Words:       []string{`пропущенные`, `звонки`},
	},
	{
		Name:        models.SceneToday,
		DaysAgo:     0,
		NoCalls:     "Сегодня еще не было звонков",
		MenuEntry:   "все звонки за сегодня",
		Description: "Все звонки за сегодня",
		Words:       []string{`все`, `звонки`, `за\s+сегодня`},
	},
	{
		Name:        models.SceneYesterday,
		DaysAgo:     1,
		NoCalls:     "Вчера звонков не было",
		MenuEntry:   "все звонки за вчера",
		Description: "Все звонки за вчера",
		Words:       []string{`все`, `звонки`, `за\s+вчера`},
	},
}

const (
	dateMenuEntry   = "все звонки за дату"
	dateDescription = "Все звонки за дату"
)

func sceneByName(name string) (ReportScene, bool) {
	for _, s := range reportScenes {
		if s.Name == name {
			return s, true
		}
	}
	return ReportScene{}, false
}

// menuEntry returns the repeat label for a scene, empty for non-report scenes.
func menuEntry(scene string) string {
	if scene == models.SceneDate {
		return dateMenuEntry
	}
	if s, ok := sceneByName(scene); ok {
		return s.MenuEntry
	}
	return ""
}
