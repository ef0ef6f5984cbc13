// Package domain holds the emergency-contact model and its access grant.
package domain

import "time"

// AccessLevel is the coarse clearance tier of a contact.
type AccessLevel string

const (
	AccessFull          AccessLevel = "full"
	AccessLimited       AccessLevel = "limited"
	AccessEmergencyOnly AccessLevel = "emergency-only"
)

// EmergencyServicesPhone is the reserved emergency-services number; the
// contact carrying it is never auto-messaged.
const EmergencyServicesPhone = "911"

// Permissions is the per-contact set of data-access flags applied when a
// session snapshot is read.
type Permissions struct {
	RealtimeLocation bool `json:"realtimeLocation"`
	LocationHistory  bool `json:"locationHistory"`
	Recordings       bool `json:"recordings"`
	MedicalInfo      bool `json:"medicalInfo"`
	DeviceStatus     bool `json:"deviceStatus"`
	EmergencyAlerts  bool `json:"emergencyAlerts"`
}

// AllPermissions returns the default permission set with every flag enabled.
func AllPermissions() Permissions {
	return Permissions{
		RealtimeLocation: true,
		LocationHistory:  true,
		Recordings:       true,
		MedicalInfo:      true,
		DeviceStatus:     true,
		EmergencyAlerts:  true,
	}
}

// PermissionPatch is a partial permission update; nil fields are left unchanged.
type PermissionPatch struct {
	RealtimeLocation *bool `json:"realtimeLocation,omitempty"`
	LocationHistory  *bool `json:"locationHistory,omitempty"`
	Recordings       *bool `json:"recordings,omitempty"`
	MedicalInfo      *bool `json:"medicalInfo,omitempty"`
	DeviceStatus     *bool `json:"deviceStatus,omitempty"`
	EmergencyAlerts  *bool `json:"emergencyAlerts,omitempty"`
}

// Merge applies the patch on top of p and returns the result.
func (p Permissions) Merge(patch PermissionPatch) Permissions {
	if patch.RealtimeLocation != nil {
		p.RealtimeLocation = *patch.RealtimeLocation
	}
	if patch.LocationHistory != nil {
		p.LocationHistory = *patch.LocationHistory
	}
	if patch.Recordings != nil {
		p.Recordings = *patch.Recordings
	}
	if patch.MedicalInfo != nil {
		p.MedicalInfo = *patch.MedicalInfo
	}
	if patch.DeviceStatus != nil {
		p.DeviceStatus = *patch.DeviceStatus
	}
	if patch.EmergencyAlerts != nil {
		p.EmergencyAlerts = *patch.EmergencyAlerts
	}
	return p
}

// Grant is the per-contact access authorization with audit timestamps.
// Revocation sets Granted false and stamps RevokedAt.
type Grant struct {
	Granted   bool       `json:"granted"`
	GrantedAt time.Time  `json:"grantedAt"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"` // nil when not revoked
}

// Contact is an emergency contact. ID is unique and immutable; Verified
// transitions false to true exactly once.
type Contact struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Phone         string      `json:"phone"`
	Relation      string      `json:"relation"`
	Verified      bool        `json:"verified"`
	VerifiedAt    *time.Time  `json:"verifiedAt,omitempty"` // nil until verified
	AccessLevel   AccessLevel `json:"accessLevel"`
	Permissions   Permissions `json:"permissions"`
	LastAccessAt  *time.Time  `json:"lastAccessAt,omitempty"`
	TotalAccesses int         `json:"totalAccesses"`
	Grant         Grant       `json:"grant"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// IsEmergencyService reports whether this is the reserved emergency-services
// contact, which is excluded from automatic messaging.
func (c *Contact) IsEmergencyService() bool {
	return c.Phone == EmergencyServicesPhone
}

// Notifiable reports whether the contact may receive emergency notifications:
// verified, granted, alert permission on, and not the reserved services contact.
func (c *Contact) Notifiable() bool {
	return c.Verified && c.Grant.Granted && c.Permissions.EmergencyAlerts && !c.IsEmergencyService()
}
