package usecase

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/fekuna/omnipos-catalog-sync/internal/woocommerce"
	"github.com/lib/pq"
	"github.com/spf13/cast"
)

type nutrient int

const (
	nutrientNone nutrient = iota
	nutrientCalories
	nutrientProtein
	nutrientCarbs
	nutrientSaturatedFat
	nutrientFat
	nutrientFiber
	nutrientSugars
	nutrientSalt
)

// Order matters: "saturated" must be tried before "fat".
var nutrientKeywords = []struct {
	keywords []string
	target   nutrient
}{
	{[]string{"calorie"}, nutrientCalories},
	{[]string{"protein"}, nutrientProtein},
	{[]string{"carb"}, nutrientCarbs},
	{[]string{"saturated"}, nutrientSaturatedFat},
	{[]string{"fat"}, nutrientFat},
	{[]string{"fiber", "fibre"}, nutrientFiber},
	{[]string{"sugar"}, nutrientSugars},
	{[]string{"salt", "sodium"}, nutrientSalt},
}

func classifyKey(key string) nutrient {
	for _, entry := range nutrientKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(key, kw) {
				return entry.target
			}
		}
	}
	return nutrientNone
}

// ExtractNutrition scans free-form metadata for nutrition facts. Unknown keys
// and values that are not plain non-negative numbers are ignored; the first
// usable value for a field wins.
func ExtractNutrition(meta []woocommerce.MetaData) model.Nutrition {
	var n model.Nutrition
	for _, m := range meta {
		key := strings.ToLower(strings.TrimSpace(m.Key))
		target := classifyKey(key)
		if target == nutrientNone {
			continue
		}
		v, ok := numericValue(m.Value)
		if !ok {
			continue
		}

		switch target {
		case nutrientCalories:
			if n.Calories == nil {
				kcal := int(math.Round(v))
				n.Calories = &kcal
			}
		case nutrientProtein:
			setOnce(&n.Protein, v)
		case nutrientCarbs:
			setOnce(&n.Carbs, v)
		case nutrientSaturatedFat:
			setOnce(&n.SaturatedFat, v)
		case nutrientFat:
			setOnce(&n.Fat, v)
		case nutrientFiber:
			setOnce(&n.Fiber, v)
		case nutrientSugars:
			setOnce(&n.Sugars, v)
		case nutrientSalt:
			// mg of sodium to g
			if strings.Contains(key, "sodium") {
				v = v / 1000
			}
			setOnce(&n.Salt, v)
		}
	}
	return n
}

func setOnce(dst **float64, v float64) {
	if *dst == nil {
		*dst = &v
	}
}

// numericValue accepts numbers and numeric strings with an optional unit
// suffix ("12.5", "800mg").
func numericValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil, bool:
		return 0, false
	case string:
		s := strings.TrimSpace(v)
		s = strings.TrimSpace(strings.TrimRightFunc(s, unicode.IsLetter))
		if s == "" {
			return 0, false
		}
		s, ok := decimalComma(s)
		if !ok {
			return 0, false
		}
		raw = s
	}

	f, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}

// decimalComma rewrites a single decimal comma ("12,5") to a point. Strings
// that could be thousands grouping ("1,200", "1,250.5", "1,2,3") are rejected.
func decimalComma(s string) (string, bool) {
	i := strings.IndexByte(s, ',')
	if i < 0 {
		return s, true
	}
	frac := s[i+1:]
	if strings.ContainsAny(frac, ",.") || strings.Contains(s[:i], ".") || len(frac) == 3 {
		return "", false
	}
	return s[:i] + "." + frac, true
}

var categoryTagKeywords = []string{"halal", "pasta", "kids", "student", "vegan", "vegetarian"}

// ExtractTags lower-cases remote tag names and adds fixed keyword tags found
// in category names. The result is de-duplicated and sorted.
func ExtractTags(tags []woocommerce.TagRef, categories []woocommerce.CategoryRef) pq.StringArray {
	set := map[string]struct{}{}
	for _, t := range tags {
		name := strings.ToLower(strings.TrimSpace(t.Name))
		if name != "" {
			set[name] = struct{}{}
		}
	}
	for _, c := range categories {
		name := strings.ToLower(c.Name)
		for _, kw := range categoryTagKeywords {
			if strings.Contains(name, kw) {
				set[kw] = struct{}{}
			}
		}
	}

	out := make(pq.StringArray, 0, len(set))
	for tag := range set {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
