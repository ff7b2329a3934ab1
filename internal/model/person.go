package model

// Role tags stored in Person.Role.  Staff members carry a sub-role such as
// COACH; anything other than RolePlayer is treated as staff.
const (
    RolePlayer = "Player"
    RoleStaff  = "Staff"
    RoleCoach  = "COACH"
)

// Person holds the fields shared by players and staff members.  It is the
// unit stored in the matchday staff selection, which may contain players
// dragged onto the staff area as well as real staff.
//
// Fields:
//  ID            – creation clock value in Unix milliseconds, unique in a roster.
//  LastName      – family name, used by the search filter.
//  FirstName     – given name.
//  TeamID        – owning team identifier.
//  Role          – Player, Staff or a staff sub-role such as COACH.
//  LicenseNumber – federation license number.
//  BirthDate     – ISO date string (YYYY-MM-DD), not validated.
//  Nationality   – free text.
//  Image         – avatar URI.
//  CalledUp      – whether the person is selected for the matchday.
type Person struct {
    ID            int64  `json:"id"`
    LastName      string `json:"last_name"`
    FirstName     string `json:"first_name"`
    TeamID        int    `json:"team_id"`
    Role          string `json:"role"`
    LicenseNumber string `json:"license_number"`
    BirthDate     string `json:"birth_date"`
    Nationality   string `json:"nationality"`
    Image         string `json:"image"`
    CalledUp      bool   `json:"called_up"`
}

// FullName returns "first last" for display.
func (p Person) FullName() string {
    if p.FirstName == "" {
        return p.LastName
    }
    if p.LastName == "" {
        return p.FirstName
    }
    return p.FirstName + " " + p.LastName
}

// Player is a roster entry.  ShirtNumber is free text and need not be unique.
// Post is the slot label the player prefers, nil when unassigned.
type Player struct {
    Person
    ShirtNumber string  `json:"shirt_number"`
    Category    string  `json:"category"`
    Post        *string `json:"post"`
}

// Staff is a member of the technical staff.
type Staff struct {
    Person
}
