package domain

// Alert severities. Unrecognized severities fall back to SeverityInfo.
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

var alertSeverities = map[string]struct{}{
	SeverityInfo: {}, SeveritySuccess: {}, SeverityWarning: {}, SeverityError: {},
}

// AlertClass maps a severity to its presentation class, defaulting to info.
func AlertClass(severity string) string {
	if _, ok := alertSeverities[severity]; !ok {
		severity = SeverityInfo
	}
	return "alert-" + severity
}

// Badge colors. Unrecognized colors fall back to BadgeBlue.
const (
	BadgeBlue   = "blue"
	BadgeGreen  = "green"
	BadgeRed    = "red"
	BadgeYellow = "yellow"
	BadgePurple = "purple"
	BadgeGray   = "gray"
)

var badgeColors = map[string]struct{}{
	BadgeBlue: {}, BadgeGreen: {}, BadgeRed: {},
	BadgeYellow: {}, BadgePurple: {}, BadgeGray: {},
}

// BadgeClass maps a badge color to its presentation class, defaulting to blue.
func BadgeClass(color string) string {
	if _, ok := badgeColors[color]; !ok {
		color = BadgeBlue
	}
	return "badge-" + color
}
