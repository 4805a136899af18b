package models

// Common constants used across the application
const (
	// UnknownValue is the fallback value when data is unavailable or calculation fails
	UnknownValue = "UNKNOWN"

	SegmentKindWalk = "walk"
	SegmentKindBus  = "bus"

	// Presentation hints for map frontends.
	ColorWalk      = "#94a3b8"
	ColorBusFirst  = "#f97316"
	ColorBusSecond = "#ea580c"
)
