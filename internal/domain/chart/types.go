package chart

import (
	"encoding/json"
	"time"
)

// Gender is the canonical gender token forwarded to the engine.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// CalendarType selects which calendar the birth date is expressed in.
type CalendarType string

const (
	CalendarSolar CalendarType = "solar"
	CalendarLunar CalendarType = "lunar"
)

// ClockValue accepts either a JSON string ("7:30", "7") or a bare number (7.5).
type ClockValue string

func (v *ClockValue) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = ClockValue(s)
		return nil
	}
	// number literals are kept verbatim and parsed during normalization
	*v = ClockValue(data)
	return nil
}

// Request is the raw, untrusted payload received from the HTTP transport.
// Exactly one of TimeIndex, Hour, or Time is consulted, selected by the
// deployment's configured time form.
type Request struct {
	Date         string      `json:"date"`
	TimeIndex    *int        `json:"timeIndex,omitempty"`
	Hour         *int        `json:"hour,omitempty"`
	Time         *ClockValue `json:"time,omitempty"`
	Gender       string      `json:"gender"`
	CalendarType string      `json:"calendarType,omitempty"`
	IsLeapMonth  bool        `json:"isLeapMonth,omitempty"`
	FixLeap      *bool       `json:"fixLeap,omitempty"`
}

// NormalizedInput is exactly what the external engine receives. For solar
// dates the late-slot day rollover is already applied to Date and DayOffset is
// zero; for lunar dates Date is the raw request date and DayOffset carries the
// rollover for the engine to apply against the lunar month lengths.
type NormalizedInput struct {
	Date        string
	HourOfDay   int
	DayOffset   int
	Gender      Gender
	Calendar    CalendarType
	IsLeapMonth bool
	FixLeap     bool
}

// Palace is one of the twelve houses of a normalized chart. Every field is
// always present: sequences are empty rather than null when the engine omits
// them.
type Palace struct {
	Name             string   `json:"name"`
	Branch           string   `json:"branch"`
	HeavenlyStem     string   `json:"heavenlyStem"`
	MajorStars       []string `json:"majorStars"`
	MinorStars       []string `json:"minorStars"`
	AdjectiveStars   []string `json:"adjectiveStars"`
	HiddenStars      []string `json:"hiddenStars"`
	IsBodyPalace     bool     `json:"isBodyPalace"`
	IsOriginalPalace bool     `json:"isOriginalPalace"`
}

// DecadePeriod is one decade-luck entry.
type DecadePeriod struct {
	Range         []int  `json:"range"`
	HeavenlyStem  string `json:"heavenlyStem"`
	EarthlyBranch string `json:"earthlyBranch"`
}

// NormalizedChart is the stable output schema. Top level scalars are null when
// the engine did not report them; collections are never null.
type NormalizedChart struct {
	Gender            *string        `json:"gender"`
	SolarDate         *string        `json:"solarDate"`
	LunarDate         *string        `json:"lunarDate"`
	Zodiac            *string        `json:"zodiac"`
	FiveElementsClass *string        `json:"fiveElementsClass"`
	SoulPalaceBranch  *string        `json:"soulPalaceBranch"`
	Palaces           []Palace       `json:"palaces"`
	DecadePeriods     []DecadePeriod `json:"decadePeriods"`
}

// Record is the payload memoized per cache key.
type Record struct {
	Chart      NormalizedChart `json:"chart"`
	ViewerURL  string          `json:"viewerUrl"`
	ComputedAt time.Time       `json:"computedAt"`
}

// Response is the success envelope serialized back to API consumers.
type Response struct {
	Status    string          `json:"status"`
	Data      NormalizedChart `json:"data"`
	ViewerURL string          `json:"viewerUrl"`
}
