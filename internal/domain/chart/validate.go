package chart

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "github.com/yanqian/ziwei-api/pkg/errors"
)

// Machine readable error codes returned in the error envelope. Validation
// codes are reported before any engine call; HOUR_INVALID and DATE_INVALID are
// reclassified from engine rejections.
const (
	CodeMissingParams     = "MISSING_PARAMS"
	CodeInvalidGender     = "INVALID_GENDER"
	CodeInvalidDateFormat = "INVALID_DATE_FORMAT"
	CodeInvalidTimeIndex  = "INVALID_TIME_INDEX"
	CodeInvalidTimeFormat = "INVALID_TIME_FORMAT"
	CodeInvalidHour       = "INVALID_HOUR"
	CodeHourInvalid       = "HOUR_INVALID"
	CodeDateInvalid       = "DATE_INVALID"
	CodeInternal          = "INTERNAL_ERROR"
)

// Syntax only: month in [01,12], day in [01,31]. Calendar level validity
// (day count per month, leap years) is deferred to the engine.
var dateSyntax = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)

// validated is the typed tuple produced by request validation. The time field
// is left in its raw form for the normalizer.
type validated struct {
	Date        string
	Gender      Gender
	Calendar    CalendarType
	IsLeapMonth bool
	FixLeap     bool
}

func validateRequest(req Request, form TimeForm) (validated, error) {
	if missing := missingParams(req, form); len(missing) > 0 {
		return validated{}, apperrors.Wrap(CodeMissingParams,
			fmt.Sprintf("missing required parameters: %s", strings.Join(missing, ", ")), nil)
	}

	gender, ok := normalizeGender(req.Gender)
	if !ok {
		return validated{}, apperrors.Wrap(CodeInvalidGender,
			fmt.Sprintf("gender %q is not recognized, expected male or female", req.Gender), nil)
	}

	date := strings.TrimSpace(req.Date)
	if !dateSyntax.MatchString(date) {
		return validated{}, apperrors.Wrap(CodeInvalidDateFormat,
			fmt.Sprintf("date %q must be formatted as YYYY-MM-DD", req.Date), nil)
	}

	calendar, ok := normalizeCalendar(req.CalendarType)
	if !ok {
		return validated{}, apperrors.Wrap(CodeInvalidDateFormat,
			fmt.Sprintf("calendarType %q must be solar or lunar", req.CalendarType), nil)
	}

	fixLeap := true
	if req.FixLeap != nil {
		fixLeap = *req.FixLeap
	}

	return validated{
		Date:        date,
		Gender:      gender,
		Calendar:    calendar,
		IsLeapMonth: calendar == CalendarLunar && req.IsLeapMonth,
		FixLeap:     fixLeap,
	}, nil
}

func missingParams(req Request, form TimeForm) []string {
	var missing []string
	if strings.TrimSpace(req.Date) == "" {
		missing = append(missing, "date")
	}
	switch form {
	case TimeFormHour:
		if req.Hour == nil {
			missing = append(missing, "hour")
		}
	case TimeFormClock:
		if req.Time == nil || strings.TrimSpace(string(*req.Time)) == "" {
			missing = append(missing, "time")
		}
	default:
		if req.TimeIndex == nil {
			missing = append(missing, "timeIndex")
		}
	}
	if strings.TrimSpace(req.Gender) == "" {
		missing = append(missing, "gender")
	}
	return missing
}

func normalizeGender(raw string) (Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "m", "男":
		return GenderMale, true
	case "female", "f", "女":
		return GenderFemale, true
	default:
		return "", false
	}
}

func normalizeCalendar(raw string) (CalendarType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(CalendarSolar):
		return CalendarSolar, true
	case string(CalendarLunar):
		return CalendarLunar, true
	default:
		return "", false
	}
}
