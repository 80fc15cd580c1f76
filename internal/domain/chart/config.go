package chart

import "time"

// TimeForm names the single time representation a deployment accepts.
type TimeForm string

const (
	// TimeFormIndex reads the traditional 13-slot double-hour index.
	TimeFormIndex TimeForm = "timeIndex"
	// TimeFormHour reads an explicit hour of day in [0,23].
	TimeFormHour TimeForm = "hour"
	// TimeFormClock reads a free-form "H", "H:MM" or fractional-hour value.
	TimeFormClock TimeForm = "clock"
)

// LateSlotPolicy decides which calendar day the boundary slot (index 12,
// 23:00-24:00) belongs to.
type LateSlotPolicy string

const (
	// LateSlotNextDay resolves slot 12 to hour 0 of the following date.
	LateSlotNextDay LateSlotPolicy = "next-day"
	// LateSlotSameDay resolves slot 12 to hour 23 of the request date.
	LateSlotSameDay LateSlotPolicy = "same-day"
)

// Config holds runtime knobs for the chart service.
type Config struct {
	Locale         string
	CacheTTL       time.Duration
	TimeForm       TimeForm
	LateSlotPolicy LateSlotPolicy
	ViewerBaseURL  string
}
