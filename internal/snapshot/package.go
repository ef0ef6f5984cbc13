// Package snapshot assembles the immutable data package captured when an
// emergency session opens, and filters it per-contact on read.
//
// Assembly never fails: absent upstream data becomes an explicit "unknown"
// placeholder, because failing to alert is worse than alerting with partial
// data.
package snapshot

import (
	"fmt"
	"time"

	contactdomain "safeguard/backend/internal/contact/domain"
	"safeguard/backend/internal/location"
	"safeguard/backend/internal/media"
	"safeguard/backend/internal/threat"
)

// Unknown is the placeholder recorded for data the core could not obtain.
const Unknown = "unknown"

// HistoryLimit is the maximum number of history points captured in a snapshot.
const HistoryLimit = 20

// LocationInfo is the location portion of a package.
type LocationInfo struct {
	Current  string            `json:"current"`  // "lat,lng" or "unknown"
	History  []location.Sample `json:"history"`  // newest first, at most HistoryLimit
	Accuracy string            `json:"accuracy"` // e.g. "12m" or "unknown"
}

// DeviceInfo is the device-status portion of a package.
type DeviceInfo struct {
	Battery  string `json:"battery"`  // e.g. "84%" or "unknown"
	Online   string `json:"online"`   // "online", "offline", or "unknown"
	LastSeen string `json:"lastSeen"` // RFC3339 or "unknown"
}

// ContactInfo is the roster entry included in a package.
type ContactInfo struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
	Verified bool   `json:"verified"`
}

// Profile is the personal/medical portion of a package.
type Profile struct {
	Settings    map[string]bool `json:"settings,omitempty"`
	MedicalInfo string          `json:"medicalInfo,omitempty"`
	BloodType   string          `json:"bloodType,omitempty"`
	Allergies   string          `json:"allergies,omitempty"`
	Medications string          `json:"medications,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// Package is the access package returned to a contact resolving a session.
// Fields are present only if permitted for the requester.
type Package struct {
	Timestamp  time.Time          `json:"timestamp"`
	Location   *LocationInfo      `json:"location,omitempty"`
	Device     *DeviceInfo        `json:"device,omitempty"`
	Recordings []media.Recording  `json:"recordings,omitempty"`
	Contacts   []ContactInfo      `json:"contacts,omitempty"`
	Profile    *Profile           `json:"profile,omitempty"`
	Threat     *threat.Assessment `json:"threat,omitempty"`
}

// Inputs are the read-only references a snapshot is built from. Any field may
// be zero; the builder substitutes placeholders.
type Inputs struct {
	Now        time.Time
	Current    *location.Sample
	History    []location.Sample
	Battery    string
	Online     *bool
	LastSeen   *time.Time
	Recordings []media.Recording
	Contacts   []*contactdomain.Contact
	Profile    *Profile
	Threat     *threat.Assessment
	Settings   map[string]bool
}

// Build assembles a complete package from whatever inputs are available.
// It never fails; missing data degrades to placeholders.
func Build(in Inputs) Package {
	ts := in.Now
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	loc := &LocationInfo{Current: Unknown, Accuracy: Unknown}
	if in.Current != nil {
		loc.Current = FormatCoordinates(in.Current.Lat, in.Current.Lng)
		loc.Accuracy = fmt.Sprintf("%.0fm", in.Current.AccuracyMeters)
	}
	history := in.History
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}
	loc.History = append([]location.Sample(nil), history...)

	dev := &DeviceInfo{Battery: Unknown, Online: Unknown, LastSeen: Unknown}
	if in.Battery != "" {
		dev.Battery = in.Battery
	}
	if in.Online != nil {
		if *in.Online {
			dev.Online = "online"
		} else {
			dev.Online = "offline"
		}
	}
	if in.LastSeen != nil {
		dev.LastSeen = in.LastSeen.UTC().Format(time.RFC3339)
	}

	contacts := make([]ContactInfo, 0, len(in.Contacts))
	for _, c := range in.Contacts {
		if c == nil {
			continue
		}
		contacts = append(contacts, ContactInfo{
			Name:     c.Name,
			Phone:    c.Phone,
			Relation: c.Relation,
			Verified: c.Verified,
		})
	}

	profile := in.Profile
	if profile == nil {
		profile = &Profile{}
	}
	p := *profile
	if p.Settings == nil {
		p.Settings = in.Settings
	}
	for _, f := range []*string{&p.MedicalInfo, &p.BloodType, &p.Allergies, &p.Medications, &p.Notes} {
		if *f == "" {
			*f = Unknown
		}
	}

	return Package{
		Timestamp:  ts,
		Location:   loc,
		Device:     dev,
		Recordings: append([]media.Recording(nil), in.Recordings...),
		Contacts:   contacts,
		Profile:    &p,
		Threat:     in.Threat,
	}
}

// FormatCoordinates renders a lat,lng pair the way outgoing messages and
// packages carry it.
func FormatCoordinates(lat, lng float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lng)
}

// FilterFor returns a copy of p containing only the fields the permission set
// allows. Forbidden fields are silently omitted, never an error, so one
// session can serve contacts with different clearance.
func FilterFor(p Package, perms contactdomain.Permissions) Package {
	out := Package{Timestamp: p.Timestamp, Contacts: p.Contacts}

	if p.Location != nil && (perms.RealtimeLocation || perms.LocationHistory) {
		loc := &LocationInfo{Current: Unknown, Accuracy: Unknown}
		if perms.RealtimeLocation {
			loc.Current = p.Location.Current
			loc.Accuracy = p.Location.Accuracy
		}
		if perms.LocationHistory {
			loc.History = p.Location.History
		}
		out.Location = loc
	}
	if perms.DeviceStatus {
		out.Device = p.Device
	}
	if perms.Recordings {
		out.Recordings = p.Recordings
	}
	if p.Profile != nil {
		prof := &Profile{Settings: p.Profile.Settings}
		if perms.MedicalInfo {
			prof.MedicalInfo = p.Profile.MedicalInfo
			prof.BloodType = p.Profile.BloodType
			prof.Allergies = p.Profile.Allergies
			prof.Medications = p.Profile.Medications
			prof.Notes = p.Profile.Notes
		}
		out.Profile = prof
	}
	if perms.EmergencyAlerts {
		out.Threat = p.Threat
	}
	return out
}
