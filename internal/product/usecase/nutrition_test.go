package usecase

import (
	"testing"

	"github.com/fekuna/omnipos-catalog-sync/internal/woocommerce"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meta(pairs ...any) []woocommerce.MetaData {
	var out []woocommerce.MetaData
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, woocommerce.MetaData{Key: pairs[i].(string), Value: pairs[i+1]})
	}
	return out
}

func TestExtractNutritionSodiumIsConvertedToSalt(t *testing.T) {
	n := ExtractNutrition(meta("sodium_mg", "800"))
	require.NotNil(t, n.Salt)
	assert.InDelta(t, 0.8, *n.Salt, 1e-9)

	n = ExtractNutrition(meta("salt", "1.2"))
	require.NotNil(t, n.Salt)
	assert.InDelta(t, 1.2, *n.Salt, 1e-9)
}

func TestExtractNutritionKeywordTable(t *testing.T) {
	n := ExtractNutrition(meta(
		"Calories", "451.6",
		"protein_g", 32.5,
		"Carbohydrates", "40",
		"saturated_fat", "3.1",
		"total_fat", "12g",
		"Fibre", "6",
		"sugars", "4.5",
	))

	require.NotNil(t, n.Calories)
	assert.Equal(t, 452, *n.Calories)
	require.NotNil(t, n.Protein)
	assert.Equal(t, 32.5, *n.Protein)
	require.NotNil(t, n.Carbs)
	assert.Equal(t, 40.0, *n.Carbs)
	require.NotNil(t, n.SaturatedFat)
	assert.Equal(t, 3.1, *n.SaturatedFat)
	require.NotNil(t, n.Fat)
	assert.Equal(t, 12.0, *n.Fat)
	require.NotNil(t, n.Fiber)
	assert.Equal(t, 6.0, *n.Fiber)
	require.NotNil(t, n.Sugars)
	assert.Equal(t, 4.5, *n.Sugars)
	assert.Nil(t, n.Salt)
}

func TestExtractNutritionIgnoresUnusableValues(t *testing.T) {
	n := ExtractNutrition(meta(
		"calories", "lots",
		"protein", nil,
		"fat", true,
		"fiber", "",
		"sugar", map[string]any{"value": 3},
		"salt", "-1",
		"carbs", "1,250.5",
		"saturated_fat", "1,2,3",
		"_wp_page_template", "default",
	))
	assert.Nil(t, n.Calories)
	assert.Nil(t, n.Protein)
	assert.Nil(t, n.Fat)
	assert.Nil(t, n.Fiber)
	assert.Nil(t, n.Sugars)
	assert.Nil(t, n.Salt)
	assert.Nil(t, n.Carbs)
	assert.Nil(t, n.SaturatedFat)

	n = ExtractNutrition(meta("sodium_mg", "1,200", "calories", "1,250 kcal"))
	assert.Nil(t, n.Salt, "thousands grouping is ambiguous")
	assert.Nil(t, n.Calories)
}

func TestExtractNutritionAcceptsDecimalComma(t *testing.T) {
	n := ExtractNutrition(meta("protein", "12,5 g", "salt", "0,75"))
	require.NotNil(t, n.Protein)
	assert.Equal(t, 12.5, *n.Protein)
	require.NotNil(t, n.Salt)
	assert.InDelta(t, 0.75, *n.Salt, 1e-9)
}

func TestExtractNutritionFirstValueWins(t *testing.T) {
	n := ExtractNutrition(meta("protein", "20", "protein_per_100g", "8"))
	require.NotNil(t, n.Protein)
	assert.Equal(t, 20.0, *n.Protein)
}

func TestExtractTags(t *testing.T) {
	tags := ExtractTags(
		[]woocommerce.TagRef{{Name: "Spicy"}, {Name: " gluten free "}, {Name: "spicy"}},
		[]woocommerce.CategoryRef{{Name: "Halal Kids Meals"}, {Name: "Vegan Pasta"}},
	)
	assert.Equal(t, []string{"gluten free", "halal", "kids", "pasta", "spicy", "vegan"}, []string(tags))

	assert.Empty(t, ExtractTags(nil, nil))
	assert.NotNil(t, ExtractTags(nil, nil))
}
