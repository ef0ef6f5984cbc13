package notify

import (
	"fmt"
	"time"

	"safeguard/backend/internal/location"
	"safeguard/backend/internal/snapshot"
)

// mapsLink renders a shareable map link for a fix, or the unknown placeholder.
func mapsLink(loc *location.Sample) string {
	if loc == nil {
		return snapshot.Unknown
	}
	return fmt.Sprintf("https://maps.google.com/?q=%.6f,%.6f", loc.Lat, loc.Lng)
}

func accuracyText(loc *location.Sample) string {
	if loc == nil {
		return snapshot.Unknown
	}
	return fmt.Sprintf("%.0fm", loc.AccuracyMeters)
}

// ComposeAlert builds the emergency alert message sent to each notified
// contact. accessURL points at the minted session; silent drops the app
// footer.
func ComposeAlert(reason string, loc *location.Sample, at time.Time, accessURL string, silent bool) string {
	msg := fmt.Sprintf("🚨 EMERGENCY ALERT 🚨\n\n%s\n\nLocation: %s\nTime: %s\nAccuracy: %s\nLive access: %s",
		reason, mapsLink(loc), at.Format(time.RFC1123), accuracyText(loc), accessURL)
	if !silent {
		msg += "\n\nThis is an automated safety alert from SafeGuard."
	}
	return msg
}

// ComposeCheckIn builds the scheduled check-in message.
func ComposeCheckIn(loc *location.Sample, at time.Time, battery string) string {
	if battery == "" {
		battery = snapshot.Unknown
	}
	return fmt.Sprintf("✅ Safe Check-in\n\nI'm safe and checking in as scheduled.\nLocation: %s\nTime: %s\nBattery: %s",
		mapsLink(loc), at.Format(time.RFC1123), battery)
}
