package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sw(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

func TestStripStopwordsEmptySetReturnsInput(t *testing.T) {
	in := "och det att\n\ti en"
	assert.Equal(t, in, StripStopwords(in, nil))
	assert.Equal(t, in, StripStopwords(in, map[string]bool{}))
}

func TestStripStopwordsPreservesWhitespace(t *testing.T) {
	got := StripStopwords("säkerhet och  incident\nrespons", sw("och"))
	assert.Equal(t, "säkerhet   incident\nrespons", got)
}

func TestStripStopwordsCaseInsensitiveMatchKeepsCasing(t *testing.T) {
	got := StripStopwords("Och Säkerhet FÖR Incident", sw("och", "för"))
	assert.Equal(t, " Säkerhet  Incident", got)
}

func TestStripStopwordsIdempotent(t *testing.T) {
	stop := sw("och", "att", "en")
	for _, in := range []string{
		"",
		"och",
		"  leading och trailing  ",
		"en\tincident att hantera\noch en till",
		"ingen träff alls",
	} {
		once := StripStopwords(in, stop)
		assert.Equal(t, once, StripStopwords(once, stop), "input %q", in)
	}
}
