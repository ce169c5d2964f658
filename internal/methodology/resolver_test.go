package methodology

import (
	"testing"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func levelsFixture() *Methodology {
	return &Methodology{
		Name: "tst",
		Levels: map[string]LevelConfig{
			"normal": {
				Name: "normal",
				CustomFields: map[string]FieldDef{
					"f": {Type: FieldString},
				},
			},
			"advanced": {
				Name:     "advanced",
				Inherits: []string{"normal"},
				CustomFields: map[string]FieldDef{
					"f": {Type: FieldText},
					"g": {Type: FieldArray},
				},
			},
		},
	}
}

func TestResolveFieldsForLevel_Inheritance(t *testing.T) {
	m := levelsFixture()

	resolved, err := ResolveFieldsForLevel(m, "advanced")
	require.NoError(t, err)
	assert.Len(t, resolved, 2)
	assert.Equal(t, FieldText, resolved["f"].Type)
	assert.Contains(t, resolved, "g")

	resolvedAlias, err := ResolveFieldsForLevel(m, "simple")
	require.NoError(t, err)
	assert.Len(t, resolvedAlias, 1)
	assert.Contains(t, resolvedAlias, "f")
}

func TestCollectFieldsForMethodology_DuplicateIsHardError(t *testing.T) {
	err := CollectFieldsForMethodology(levelsFixture(), "advanced")
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
}

func TestInheritanceChain_CircularDependency(t *testing.T) {
	m := &Methodology{
		Name: "cyclic",
		Levels: map[string]LevelConfig{
			"a": {Name: "a", Inherits: []string{"b"}},
			"b": {Name: "b", Inherits: []string{"a"}},
		},
	}
	_, err := ResolveFieldsForLevel(m, "a")
	require.Error(t, err)
}

func TestInheritanceChain_MissingParent(t *testing.T) {
	m := &Methodology{
		Name: "orphan",
		Levels: map[string]LevelConfig{
			"advanced": {Name: "advanced", Inherits: []string{"normal"}},
		},
	}
	_, err := ResolveFieldsForLevel(m, "advanced")
	require.Error(t, err)
}

func TestNormalizeLevel(t *testing.T) {
	cases := map[string]string{
		"simple":   "normal",
		"s":        "normal",
		"detailed": "advanced",
		"d":        "advanced",
		"normal":   "normal",
		"n":        "normal",
		"advanced": "advanced",
		"a":        "advanced",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeLevel(in), "NormalizeLevel(%q)", in)
	}
}
