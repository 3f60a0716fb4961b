package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhrasesFor(t *testing.T) {
	assert.Equal(t, phraseCatalog["en"].Start, PhrasesFor("").Start)
	assert.Equal(t, phraseCatalog["en"].Start, PhrasesFor("de").Start)
	assert.Equal(t, phraseCatalog["cs"].Start, PhrasesFor("cs").Start)
	assert.Equal(t, phraseCatalog["cs"].Start, PhrasesFor("CS-cz").Start)

	for lang, p := range phraseCatalog {
		assert.Len(t, p.Motivational, 5, lang)
		assert.NotEmpty(t, p.DefaultPlanName, lang)
	}
}

func TestPhrases_NextExerciseFallsBack(t *testing.T) {
	en := PhrasesFor("en")
	assert.Equal(t, "Next exercise: Squat.", en.nextExercise("Squat"))
	assert.Equal(t, "Next exercise: unknown exercise.", en.nextExercise(""))
	assert.Equal(t, "Get ready for set number 3.", en.nextSet(3))
}
