package chart

import (
	"encoding/json"
	"fmt"
	"net/url"
)

const palaceCount = 12

// normalizeChart reshapes the engine's raw, version-variable output into the
// stable schema. It is a total function: unknown shapes and missing fields
// degrade to documented defaults, never to an error.
func normalizeChart(raw json.RawMessage) NormalizedChart {
	var doc map[string]any
	_ = json.Unmarshal(raw, &doc)

	chart := NormalizedChart{
		Gender:            stringField(doc, "gender"),
		SolarDate:         stringField(doc, "solarDate"),
		LunarDate:         stringField(doc, "lunarDate"),
		Zodiac:            stringField(doc, "zodiac"),
		FiveElementsClass: stringField(doc, "fiveElementsClass"),
		SoulPalaceBranch:  stringField(doc, "earthlyBranchOfSoulPalace"),
		Palaces:           make([]Palace, 0, palaceCount),
		DecadePeriods:     []DecadePeriod{},
	}

	for _, item := range listField(doc, "palaces") {
		entry, _ := item.(map[string]any)
		chart.Palaces = append(chart.Palaces, normalizePalace(entry))
		if period, ok := decadePeriod(entry); ok {
			chart.DecadePeriods = append(chart.DecadePeriods, period)
		}
	}
	// pad so consumers can always index twelve houses
	for len(chart.Palaces) < palaceCount {
		chart.Palaces = append(chart.Palaces, emptyPalace())
	}

	return chart
}

func normalizePalace(entry map[string]any) Palace {
	return Palace{
		Name:             stringOr(entry, "name"),
		Branch:           stringOr(entry, "earthlyBranch"),
		HeavenlyStem:     stringOr(entry, "heavenlyStem"),
		MajorStars:       starNames(entry["majorStars"]),
		MinorStars:       starNames(entry["minorStars"]),
		AdjectiveStars:   starNames(entry["adjectiveStars"]),
		HiddenStars:      starNames(entry["hiddenStars"]),
		IsBodyPalace:     boolOr(entry, "isBodyPalace"),
		IsOriginalPalace: boolOr(entry, "isOriginalPalace"),
	}
}

func emptyPalace() Palace {
	return Palace{
		MajorStars:     []string{},
		MinorStars:     []string{},
		AdjectiveStars: []string{},
		HiddenStars:    []string{},
	}
}

func decadePeriod(entry map[string]any) (DecadePeriod, bool) {
	decadal, ok := entry["decadal"].(map[string]any)
	if !ok {
		return DecadePeriod{}, false
	}
	period := DecadePeriod{
		Range:         intList(decadal["range"]),
		HeavenlyStem:  stringOr(decadal, "heavenlyStem"),
		EarthlyBranch: stringOr(decadal, "earthlyBranch"),
	}
	return period, true
}

// starNames accepts either plain strings or engine star objects carrying a
// "name" field; anything else is dropped.
func starNames(value any) []string {
	items, _ := value.([]any)
	names := make([]string, 0, len(items))
	for _, item := range items {
		switch star := item.(type) {
		case string:
			names = append(names, star)
		case map[string]any:
			if name, ok := star["name"].(string); ok {
				names = append(names, name)
			}
		}
	}
	return names
}

func intList(value any) []int {
	items, _ := value.([]any)
	out := make([]int, 0, len(items))
	for _, item := range items {
		if num, ok := item.(float64); ok {
			out = append(out, int(num))
		}
	}
	return out
}

func listField(doc map[string]any, key string) []any {
	items, _ := doc[key].([]any)
	return items
}

func stringField(doc map[string]any, key string) *string {
	if s, ok := doc[key].(string); ok {
		return &s
	}
	return nil
}

func stringOr(entry map[string]any, key string) string {
	s, _ := entry[key].(string)
	return s
}

func boolOr(entry map[string]any, key string) bool {
	b, _ := entry[key].(bool)
	return b
}

// buildViewerURL produces the companion viewer deep link. It embeds the
// original request date, never the rollover-shifted one, so the link shows the
// birth date the caller supplied.
func buildViewerURL(base, rawDate string, hour int, gender Gender) string {
	return fmt.Sprintf("%s?d=%s&h=%d&g=%s&type=ziwei", base, url.QueryEscape(rawDate), hour, gender)
}
