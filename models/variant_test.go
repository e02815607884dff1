package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariantSet(t *testing.T) {
	set, err := ParseVariantSet("")
	require.NoError(t, err)
	assert.Nil(t, set)

	set, err = ParseVariantSet(`[{"variantTitle":"Size","options":[{"label":"S","value":"10"},{"label":"M","value":"12"}]},{"variantTitle":"Bare"}]`)
	require.NoError(t, err)
	want := VariantSet{
		{VariantTitle: "Size", Options: []Option{{Label: "S", Value: "10"}, {Label: "M", Value: "12"}}},
		{VariantTitle: "Bare", Options: []Option{}},
	}
	if diff := cmp.Diff(want, set); diff != "" {
		t.Fatalf("ParseVariantSet mismatch (-want +got):\n%s", diff)
	}

	_, err = ParseVariantSet(`{"variantTitle":"not an array"}`)
	assert.Error(t, err)
}

func TestVariantSetJSON(t *testing.T) {
	out, err := DefaultVariantSet().JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"variantTitle":"","options":[{"label":"","value":""}]}]`, out)

	out, err = VariantSet(nil).JSON()
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestVariantSetEditing(t *testing.T) {
	base := DefaultVariantSet()

	set := base.AddVariant()
	require.Len(t, set, 2)
	assert.Len(t, base, 1, "receiver must not change")

	set, err := set.SetVariantTitle(0, "Color")
	require.NoError(t, err)
	assert.Equal(t, "", base[0].VariantTitle)

	set, err = set.AddOption(0)
	require.NoError(t, err)
	assert.Len(t, set[0].Options, 2)
	assert.Len(t, base[0].Options, 1)

	set, err = set.SetOption(0, 1, "label", "Red")
	require.NoError(t, err)
	set, err = set.SetOption(0, 1, "value", "5")
	require.NoError(t, err)
	assert.Equal(t, Option{Label: "Red", Value: "5"}, set[0].Options[1])

	set, err = set.DeleteOption(0, 0)
	require.NoError(t, err)
	assert.Equal(t, []Option{{Label: "Red", Value: "5"}}, set[0].Options)

	set, err = set.DeleteVariant(1)
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, "Color", set[0].VariantTitle)

	set, err = set.DeleteVariant(0)
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestVariantSetEditingErrors(t *testing.T) {
	set := DefaultVariantSet()

	_, err := set.DeleteVariant(1)
	assert.Error(t, err)
	_, err = set.SetVariantTitle(-1, "x")
	assert.Error(t, err)
	_, err = set.AddOption(3)
	assert.Error(t, err)
	_, err = set.DeleteOption(0, 1)
	assert.Error(t, err)
	_, err = set.SetOption(0, 0, "price", "1")
	assert.Error(t, err)
}
