package session

import (
	"fmt"
	"strings"
)

// Phrases holds the narration lines of one language.
type Phrases struct {
	Start           string
	SetDone         string // %s is a motivational phrase
	RestStarts      string
	SetTimeout      string
	RestSkipped     string
	RestOver        string
	NextSet         string // %d is the set number
	NextExercise    string // %s is the exercise name
	ExerciseSkipped string
	NoMoreExercises string
	Terminated      string
	Completed       string
	UnknownExercise string
	DefaultPlanName string
	Motivational    []string
}

var phraseCatalog = map[string]Phrases{
	"en": {
		Start:           "Let's start the workout! Begin your first set whenever you're ready and tap done when you finish it.",
		SetDone:         "Set complete. %s",
		RestStarts:      "Rest starts now.",
		SetTimeout:      "Time limit for this set is up. Moving on to rest.",
		RestSkipped:     "Rest skipped.",
		RestOver:        "Rest is over, let's keep going!",
		NextSet:         "Get ready for set number %d.",
		NextExercise:    "Next exercise: %s.",
		ExerciseSkipped: "Exercise skipped.",
		NoMoreExercises: "No more exercises. Finishing up.",
		Terminated:      "Workout ended.",
		Completed:       "Workout complete! Great job!",
		UnknownExercise: "unknown exercise",
		DefaultPlanName: "Workout",
		Motivational: []string{
			"Great work, keep it up!",
			"You're stronger than you think!",
			"You've got this!",
			"Only a little bit left!",
			"Your progress shows!",
		},
	},
	"cs": {
		Start:           "Začínáme trénink! Až budeš chtít, začni s první sérií a až ji dokončíš, tak to odklikni.",
		SetDone:         "Série dokončena. %s",
		RestStarts:      "Pauza začíná.",
		SetTimeout:      "Časový limit série vypršel. Přecházíme na pauzu.",
		RestSkipped:     "Pauza přeskočena.",
		RestOver:        "Pauza skončila, pokračujeme!",
		NextSet:         "Připrav se na sérii číslo %d.",
		NextExercise:    "Další cvik: %s.",
		ExerciseSkipped: "Cvik přeskočen.",
		NoMoreExercises: "Žádný další cvik. Dokončujeme.",
		Terminated:      "Trénink ukončen.",
		Completed:       "Trénink dokončen! Skvělá práce!",
		UnknownExercise: "neznámý cvik",
		DefaultPlanName: "Trénink",
		Motivational: []string{
			"Skvělá práce, jen tak dál!",
			"Jsi silnější než si myslíš!",
			"Tohle zvládneš!",
			"Zbývá už jen kousek!",
			"Tvůj pokrok je vidět!",
		},
	},
}

// PhrasesFor returns the catalog for a language tag such as "en" or "cs-CZ".
// Unknown languages fall back to English.
func PhrasesFor(lang string) Phrases {
	base, _, _ := strings.Cut(strings.ToLower(lang), "-")
	if p, ok := phraseCatalog[base]; ok {
		return p
	}
	return phraseCatalog["en"]
}

func (p Phrases) setDone(motivation string) string {
	return fmt.Sprintf(p.SetDone, motivation)
}

func (p Phrases) nextSet(n int) string {
	return fmt.Sprintf(p.NextSet, n)
}

func (p Phrases) nextExercise(name string) string {
	if name == "" {
		name = p.UnknownExercise
	}
	return fmt.Sprintf(p.NextExercise, name)
}
