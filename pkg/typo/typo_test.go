package typo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	c := Default()

	s, ok := c.Suggest("Bugün herkez burada, tabiki!")
	require.True(t, ok)
	assert.Equal(t, Suggestion{Wrong: "herkez", Correct: "herkes"}, s)

	s, ok = c.Suggest("TESEKKUR ederim")
	require.True(t, ok)
	assert.Equal(t, "teşekkür", s.Correct)

	_, ok = c.Suggest("her şey yolunda")
	assert.False(t, ok)

	_, ok = c.Suggest("")
	assert.False(t, ok)
}

func TestSuggest_SkipsIdentityEntries(t *testing.T) {
	c := NewChecker(map[string]string{"değil": "değil", "deil": "değil"})
	assert.Equal(t, 1, c.Len())

	_, ok := c.Suggest("bu değil")
	assert.False(t, ok)
}

func TestFix(t *testing.T) {
	c := Default()
	s := Suggestion{Wrong: "herkez", Correct: "herkes"}

	assert.Equal(t, "herkes geldi, herkes değil mi? herkezler", c.Fix("herkez geldi, Herkez değil mi? herkezler", s))
	assert.Equal(t, "aynı", c.Fix("aynı", Suggestion{}))
}

func TestParseDictionary(t *testing.T) {
	_, err := ParseDictionary([]byte("[]"))
	assert.Error(t, err)
}
