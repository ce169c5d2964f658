package methodology

import (
	"testing"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registryWith(methodologies ...*Methodology) *Registry {
	r := NewRegistry()
	for _, m := range methodologies {
		r.byName[m.Name] = m
		r.nameOrder = append(r.nameOrder, m.Name)
	}
	return r
}

func TestCollect_CrossMethodologyCollision(t *testing.T) {
	alpha := &Methodology{Name: "alpha", Levels: map[string]LevelConfig{
		"normal": {Name: "normal", CustomFields: map[string]FieldDef{"shared": {Type: FieldString}}},
	}}
	beta := &Methodology{Name: "beta", Levels: map[string]LevelConfig{
		"normal": {Name: "normal", CustomFields: map[string]FieldDef{"shared": {Type: FieldString}}},
	}}
	r := registryWith(alpha, beta)

	_, err := Collect(r, []View{{Methodology: "alpha", Level: "normal"}, {Methodology: "beta", Level: "normal"}})
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindFieldConflict, appErr.Kind)
}

func TestCollect_DuplicateFieldWithinInheritanceChainIsHardError(t *testing.T) {
	tst := &Methodology{Name: "tst", Levels: map[string]LevelConfig{
		"normal":   {Name: "normal", CustomFields: map[string]FieldDef{"f": {Type: FieldString}}},
		"advanced": {Name: "advanced", Inherits: []string{"normal"}, CustomFields: map[string]FieldDef{
			"f": {Type: FieldText},
			"g": {Type: FieldArray},
		}},
	}}
	r := registryWith(tst)

	_, err := Collect(r, []View{{Methodology: "tst", Level: "advanced"}})
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
}

func TestCollect_ReservedFieldDropped(t *testing.T) {
	m := &Methodology{Name: "feature", Levels: map[string]LevelConfig{
		"normal": {Name: "normal", CustomFields: map[string]FieldDef{
			"author": {Type: FieldString},
			"custom": {Type: FieldString},
		}},
	}}
	r := registryWith(m)

	result, err := Collect(r, []View{{Methodology: "feature", Level: "normal"}})
	require.NoError(t, err)
	assert.NotContains(t, result.Fields, "author")
	assert.Contains(t, result.Fields, "custom")
	assert.Len(t, result.Warnings, 1)
}

func TestCoerceValue(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, CoerceValue(FieldArray, "a, b\n"))
	assert.Equal(t, int64(42), CoerceValue(FieldNumber, "42"))
	assert.Equal(t, 3.5, CoerceValue(FieldNumber, "3.5"))
	assert.Equal(t, true, CoerceValue(FieldBoolean, "YES"))
	assert.Equal(t, false, CoerceValue(FieldBoolean, "nope"))
	assert.Equal(t, "plain", CoerceValue(FieldString, "plain"))
}

func TestApplyUserValues_RequiredDefaulting(t *testing.T) {
	fields := map[string]CollectedField{
		"f": {Name: "f", Type: FieldString, Required: true, Default: "fallback", Methodologies: []string{"feature"}},
		"g": {Name: "g", Type: FieldArray, Required: true, Methodologies: []string{"feature"}},
	}
	out := ApplyUserValues(fields, "feature", map[string]string{})
	assert.Equal(t, "fallback", out["f"])
	assert.Equal(t, []string{}, out["g"])
}
