package snapshot

// Snapshot is the full authorization payload the authority materializes for
// one identity at one point in time. It is treated as an immutable value:
// a new login replaces the whole snapshot, fields are never mutated in place.
type Snapshot struct {
	Roles    Roles     `json:"roles"`
	Company  Company   `json:"company"`
	Bookings []Booking `json:"bookings"`
}

// Roles holds the disjoint role sets, each keyed by an authority-assigned id.
type Roles struct {
	Owner    []Person   `json:"owner"`
	Admin    []Person   `json:"admin"`
	Staff    []Person   `json:"staff"`
	Customer []Customer `json:"customer"`
}

// Person is an owner, admin or staff member.
type Person struct {
	ID                  string          `json:"id"`
	PersonalInformation PersonalInfo    `json:"personal_information"`
	ProfileImage        *Image          `json:"profile_image"`
	ContactMethod       []ContactMethod `json:"contact_method"`
}

// Customer extends Person with optional free-text notes.
type Customer struct {
	ID                  string          `json:"id"`
	PersonalInformation PersonalInfo    `json:"personal_information"`
	Notes               *string         `json:"notes"`
	ProfileImage        *Image          `json:"profile_image"`
	ContactMethod       []ContactMethod `json:"contact_method"`
}

type PersonalInfo struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	DateOfBirth *string `json:"date_of_birth"`
	Gender      *string `json:"gender"`
}

type Image struct {
	ID   string  `json:"id"`
	Type *string `json:"type"`
	Path *string `json:"path"`
}

type ContactMethod struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Value     string `json:"value"`
	IsPrimary bool   `json:"is_primary"`
}

// Company is the organization the authenticated identity belongs to.
type Company struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	Description         string             `json:"description"`
	Logo                Image              `json:"logo"`
	Currency            Currency           `json:"currency"`
	Timetable           []Timetable        `json:"timetable"`
	ServicesByCatalogue []ServiceCatalogue `json:"services_by_catalogue"`
	ContactMethod       []ContactMethod    `json:"contact_method"`
}

type Currency struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

// Timetable is one weekly opening interval. A company carries at most one
// entry per day of week.
type Timetable struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Timezone  string `json:"timezone"`
}

// ServiceCatalogue pairs a catalogue with the services filed under it; a
// service belongs to exactly one catalogue in this structure.
type ServiceCatalogue struct {
	Catalogue Catalogue `json:"catalogue"`
	Services  []Service `json:"services"`
}

type Catalogue struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Service struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Duration    string  `json:"duration"`
	Price       float64 `json:"price"`
}

// Booking references one customer, an optional staff person, one service
// and a status, plus the start/end time pair.
type Booking struct {
	ID        string   `json:"id"`
	Customer  Customer `json:"customer"`
	Staff     *Person  `json:"staff"`
	Service   Service  `json:"service"`
	Status    Status   `json:"status"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
}

type Status struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"created_at"`
}
