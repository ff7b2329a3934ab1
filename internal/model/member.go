package model

import (
    "errors"
    "strings"
)

// MemberKind discriminates the variants of Member.
type MemberKind string

const (
    KindPlayer MemberKind = "player"
    KindStaff  MemberKind = "staff"
)

// Defaults applied to new members when the form leaves a field empty.
const (
    DefaultTeamID      = 9
    DefaultCategory    = "U17"
    DefaultNationality = "Maroc"
    DefaultImage       = "http://localhost:3000/uploads/profil-default.jpg"
)

// ErrMissingFields is returned by Validate when required fields are empty.
var ErrMissingFields = errors.New("missing required fields")

// Member is the payload of the add-entity form: exactly one of Player and
// Staff is set, matching Kind.
type Member struct {
    Kind   MemberKind `json:"kind"`
    Player *Player    `json:"player,omitempty"`
    Staff  *Staff     `json:"staff,omitempty"`
}

// MissingFieldsError lists the required fields that were left empty.
type MissingFieldsError struct {
    Fields []string
}

func (e *MissingFieldsError) Error() string {
    return ErrMissingFields.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Unwrap() error { return ErrMissingFields }

// Base returns the common record of whichever variant is set.
func (m Member) Base() *Person {
    switch m.Kind {
    case KindPlayer:
        if m.Player != nil {
            return &m.Player.Person
        }
    case KindStaff:
        if m.Staff != nil {
            return &m.Staff.Person
        }
    }
    return nil
}

// Validate checks the variant is consistent and the required fields are
// present.  Last name, first name and license number are always required;
// players also need a shirt number.
func (m Member) Validate() error {
    base := m.Base()
    if base == nil {
        return errors.New("member kind does not match payload")
    }
    var missing []string
    if strings.TrimSpace(base.LastName) == "" {
        missing = append(missing, "last_name")
    }
    if strings.TrimSpace(base.FirstName) == "" {
        missing = append(missing, "first_name")
    }
    if m.Kind == KindPlayer && strings.TrimSpace(m.Player.ShirtNumber) == "" {
        missing = append(missing, "shirt_number")
    }
    if strings.TrimSpace(base.LicenseNumber) == "" {
        missing = append(missing, "license_number")
    }
    if len(missing) > 0 {
        return &MissingFieldsError{Fields: missing}
    }
    return nil
}

// ApplyDefaults fills the optional fields the form pre-populates.
func (m *Member) ApplyDefaults() {
    base := m.Base()
    if base == nil {
        return
    }
    if base.TeamID == 0 {
        base.TeamID = DefaultTeamID
    }
    if base.Nationality == "" {
        base.Nationality = DefaultNationality
    }
    if base.Image == "" {
        base.Image = DefaultImage
    }
    switch m.Kind {
    case KindPlayer:
        if base.Role == "" {
            base.Role = RolePlayer
        }
        if m.Player.Category == "" {
            m.Player.Category = DefaultCategory
        }
    case KindStaff:
        if base.Role == "" {
            base.Role = RoleStaff
        }
    }
}
