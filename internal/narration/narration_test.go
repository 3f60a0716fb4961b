package narration

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_Since(t *testing.T) {
	tr := NewTranscript(10)
	assert.Empty(t, tr.Since(0))
	assert.Zero(t, tr.Last())

	tr.Speak("one")
	tr.Speak("two")
	tr.Speak("three")

	all := tr.Since(0)
	require.Len(t, all, 3)
	assert.Equal(t, uint64(1), all[0].Seq)
	assert.Equal(t, "three", all[2].Text)

	rest := tr.Since(2)
	require.Len(t, rest, 1)
	assert.Equal(t, "three", rest[0].Text)
	assert.Empty(t, tr.Since(3))
	assert.Equal(t, uint64(3), tr.Last())
}

func TestTranscript_DropsOldestLines(t *testing.T) {
	tr := NewTranscript(3)
	for i := 1; i <= 5; i++ {
		tr.Speak(fmt.Sprintf("line %d", i))
	}

	lines := tr.Since(0)
	require.Len(t, lines, 3)
	assert.Equal(t, uint64(3), lines[0].Seq)
	assert.Equal(t, "line 5", lines[2].Text)
	assert.Equal(t, uint64(5), tr.Last())
}

func TestMulti_FansOut(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	a, b := NewTranscript(5), NewTranscript(5)

	Multi{a, b, NewLogNarrator(logger)}.Speak("Rest starts now.")

	assert.Equal(t, "Rest starts now.", a.Since(0)[0].Text)
	assert.Equal(t, "Rest starts now.", b.Since(0)[0].Text)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, "Rest starts now.", hook.LastEntry().Data["line"])
}
