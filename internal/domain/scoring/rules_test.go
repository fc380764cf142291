package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRules_OverridesAndKeepsDefaults(t *testing.T) {
	rules, err := ParseRules([]byte(`
placement = [30, 20, 10]
personal_best_bonus = 7
`))
	require.NoError(t, err)

	assert.Equal(t, []int64{30, 20, 10}, rules.Placement)
	assert.Equal(t, int64(7), rules.PersonalBestBonus)
	assert.Equal(t, DefaultRules().ShortSegment, rules.ShortSegment)
	assert.Equal(t, DefaultRules().WithdrawalPenalty, rules.WithdrawalPenalty)
}

func TestParseRules_RejectsInvalidTables(t *testing.T) {
	cases := map[string]string{
		"increasing placement": `placement = [10, 20]`,
		"long short segment":   `short_segment = [4, 3, 2, 1]`,
		"negative penalty":     `fault_penalty = -1`,
		"empty placement":      `placement = []`,
		"malformed toml":       `placement = [`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRules([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.toml")
	require.NoError(t, os.WriteFile(path, []byte("clean_bonus = 4\n"), 0o600))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, int64(4), rules.CleanBonus)

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
