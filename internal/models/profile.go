package models

// Profile represents a trip member.
//
// Profiles are reference data: the client reads them but never creates,
// edits, or deletes them. Measurements and item requesters point at
// profiles by ID.
type Profile struct {
	// ID is the opaque identifier issued by the remote store.
	ID string

	// Nickname is the short display name used on badges.
	Nickname string

	// EnglishName is the full romanized name.
	EnglishName string

	// ColorPref is an optional badge color hint (empty when unset).
	ColorPref string
}

// Measurement holds one member's body measurements.
// At most one measurement row is active per profile; editing replaces all
// six numeric fields atomically.
type Measurement struct {
	// ID is the opaque identifier issued by the remote store.
	ID string

	// ProfileID is the member this measurement belongs to.
	ProfileID string

	// The six sizing fields, in centimeters.
	Height     float64
	Waist      float64
	Hip        float64
	FootLength float64
	LegLength  float64
	ArmLength  float64

	// Notes is optional free text (fit preferences, usual sizes).
	Notes string

	// Profile carries the joined member fields when the remote read
	// includes them. Nil when the row was read without the join.
	Profile *Profile
}
