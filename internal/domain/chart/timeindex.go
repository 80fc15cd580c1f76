package chart

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/yanqian/ziwei-api/pkg/errors"
)

// slotToHour maps double-hour slots 0-11 to the wall-clock hour passed to the
// engine. Slot 0 is the early midnight hour; slots 1-11 sit on the odd hour at
// the center of each two-hour block. Slot 12 is resolved by the late-slot
// policy instead.
var slotToHour = [12]int{0, 1, 3, 5, 7, 9, 11, 13, 15, 17, 19, 21}

const minutesPerDay = 24 * 60

// normalizedTime is the canonical (hour-of-day, day-offset) pair every
// accepted time form reduces to.
type normalizedTime struct {
	HourOfDay int
	DayOffset int
}

// normalizeTime converts the configured time representation of req into the
// canonical pair. Presence of the configured field has already been checked.
func normalizeTime(req Request, form TimeForm, policy LateSlotPolicy) (normalizedTime, error) {
	switch form {
	case TimeFormHour:
		return normalizeExplicitHour(*req.Hour)
	case TimeFormClock:
		slot, err := slotFromClock(string(*req.Time))
		if err != nil {
			return normalizedTime{}, err
		}
		return normalizeSlot(slot, policy)
	default:
		return normalizeSlot(*req.TimeIndex, policy)
	}
}

func normalizeExplicitHour(hour int) (normalizedTime, error) {
	if hour < 0 || hour > 23 {
		return normalizedTime{}, apperrors.Wrap(CodeInvalidHour,
			fmt.Sprintf("hour %d is out of range, expected 0-23", hour), nil)
	}
	return normalizedTime{HourOfDay: hour}, nil
}

func normalizeSlot(slot int, policy LateSlotPolicy) (normalizedTime, error) {
	if slot < 0 || slot > 12 {
		return normalizedTime{}, apperrors.Wrap(CodeInvalidTimeIndex,
			fmt.Sprintf("timeIndex %d is out of range, expected 0-12", slot), nil)
	}
	if slot == 12 {
		// The late slot (23:00-24:00) straddles the calendar boundary: it is
		// either hour 23 of the request date or hour 0 of the following one.
		if policy == LateSlotSameDay {
			return normalizedTime{HourOfDay: 23}, nil
		}
		return normalizedTime{HourOfDay: 0, DayOffset: 1}, nil
	}
	return normalizedTime{HourOfDay: slotToHour[slot]}, nil
}

// slotFromClock parses "H", "H:MM", or a fractional hour and buckets the
// resulting minutes-since-midnight into the 13 slots.
func slotFromClock(raw string) (int, error) {
	minutes, err := parseClockMinutes(raw)
	if err != nil {
		return 0, err
	}
	return slotForMinutes(minutes), nil
}

func parseClockMinutes(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, apperrors.Wrap(CodeInvalidTimeFormat, "time cannot be empty", nil)
	}

	if strings.Contains(trimmed, ":") {
		parts := strings.SplitN(trimmed, ":", 2)
		hour, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, invalidTimeFormat(trimmed)
		}
		minute, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, invalidTimeFormat(trimmed)
		}
		if hour < 0 || hour > 24 || minute < 0 || minute > 59 {
			return 0, invalidTimeFormat(trimmed)
		}
		if hour == 24 && minute != 0 {
			return 0, invalidTimeFormat(trimmed)
		}
		return wrapMidnight(hour*60 + minute), nil
	}

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || value < 0 || value > 24 {
		return 0, invalidTimeFormat(trimmed)
	}
	return wrapMidnight(int(value*60 + 0.5)), nil
}

// wrapMidnight folds the 24:00 boundary onto minute 0.
func wrapMidnight(minutes int) int {
	if minutes >= minutesPerDay {
		return 0
	}
	return minutes
}

// slotForMinutes buckets minutes-since-midnight into the 13 double-hour slots:
// [0,60) is slot 0, each following 120-minute block is one slot, and
// [1380,1440) is the late slot.
func slotForMinutes(minutes int) int {
	switch {
	case minutes < 60:
		return 0
	case minutes >= 1380:
		return 12
	default:
		return (minutes-60)/120 + 1
	}
}

func invalidTimeFormat(raw string) error {
	return apperrors.Wrap(CodeInvalidTimeFormat,
		fmt.Sprintf("time %q must be H, H:MM, or a fractional hour within 0-24", raw), nil)
}

// applyDayOffset shifts a solar YYYY-MM-DD date forward. The date has passed
// syntax validation but may still be calendar-invalid (e.g. 2023-02-30); such
// dates cannot be shifted and are rejected the same way the engine would
// reject them. Lunar dates never reach this function.
func applyDayOffset(date string, offset int) (string, error) {
	if offset == 0 {
		return date, nil
	}
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", apperrors.Wrap(CodeDateInvalid,
			fmt.Sprintf("date %q is not a valid calendar date", date), err)
	}
	return parsed.AddDate(0, 0, offset).Format("2006-01-02"), nil
}
