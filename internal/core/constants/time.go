package constants

import "time"

const (
	Day = 24 * time.Hour

	// Mystery egg incubation before it hatches.
	EggIncubation     = 30 * Day
	EggIncubationDays = 30

	// Breathing pacer phases (4-7-8) and cycle count.
	InhaleDuration  = 4 * time.Second
	HoldDuration    = 7 * time.Second
	ExhaleDuration  = 8 * time.Second
	BreathingCycles = 3

	// Live dashboard refresh and coach request ceiling.
	DefaultRefreshInterval = time.Second
	DefaultCoachTimeout    = 15 * time.Second

	// Financial simulation period lengths, in days.
	DaysPerWeek  = 7.0
	DaysPerMonth = 30.44
	DaysPerYear  = 365.25
)

// MillisPerDay converts stored millisecond spans into days.
const MillisPerDay = int64(24 * 60 * 60 * 1000)
