package snapshot

import (
	"encoding/json"
	"fmt"
)

// DecodeError reports the first offending field path in a structurally
// invalid authority payload. It usually indicates authority schema drift and
// should be surfaced loudly, never swallowed as a credentials failure.
type DecodeError struct {
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("snapshot: %s", e.Reason)
	}
	return fmt.Sprintf("snapshot: field %s: %s", e.Field, e.Reason)
}

// Decode validates and decodes the authority's raw payload. Unknown fields
// are ignored for forward compatibility; missing required fields and type
// mismatches fail with a DecodeError. Decoding is all-or-nothing: no
// partially populated snapshot is ever returned.
func Decode(raw json.RawMessage) (*Snapshot, error) {
	if len(raw) == 0 {
		return nil, &DecodeError{Reason: "empty payload"}
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
			return nil, &DecodeError{
				Field:  typeErr.Field,
				Reason: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
			}
		}
		return nil, &DecodeError{Reason: err.Error()}
	}

	if err := snap.validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Encode serializes a snapshot into the same self-describing JSON shape the
// authority emits, so Decode(Encode(s)) round-trips.
func Encode(snap *Snapshot) (json.RawMessage, error) {
	if snap == nil {
		return nil, &DecodeError{Reason: "nil snapshot"}
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func (s *Snapshot) validate() error {
	if s.Roles.Owner == nil {
		return missing("roles.owner")
	}
	if s.Roles.Admin == nil {
		return missing("roles.admin")
	}
	if s.Roles.Staff == nil {
		return missing("roles.staff")
	}
	if s.Roles.Customer == nil {
		return missing("roles.customer")
	}
	for i, p := range s.Roles.Owner {
		if err := p.validate(fmt.Sprintf("roles.owner[%d]", i)); err != nil {
			return err
		}
	}
	for i, p := range s.Roles.Admin {
		if err := p.validate(fmt.Sprintf("roles.admin[%d]", i)); err != nil {
			return err
		}
	}
	for i, p := range s.Roles.Staff {
		if err := p.validate(fmt.Sprintf("roles.staff[%d]", i)); err != nil {
			return err
		}
	}
	for i, c := range s.Roles.Customer {
		if err := c.validate(fmt.Sprintf("roles.customer[%d]", i)); err != nil {
			return err
		}
	}
	if err := s.Company.validate("company"); err != nil {
		return err
	}
	if s.Bookings == nil {
		return missing("bookings")
	}
	for i, b := range s.Bookings {
		if err := b.validate(fmt.Sprintf("bookings[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func (p Person) validate(path string) error {
	if p.ID == "" {
		return missing(path + ".id")
	}
	if err := p.PersonalInformation.validate(path + ".personal_information"); err != nil {
		return err
	}
	return validateContacts(p.ContactMethod, path)
}

func (c Customer) validate(path string) error {
	if c.ID == "" {
		return missing(path + ".id")
	}
	if err := c.PersonalInformation.validate(path + ".personal_information"); err != nil {
		return err
	}
	return validateContacts(c.ContactMethod, path)
}

func (pi PersonalInfo) validate(path string) error {
	if pi.FirstName == "" {
		return missing(path + ".first_name")
	}
	if pi.LastName == "" {
		return missing(path + ".last_name")
	}
	return nil
}

func validateContacts(methods []ContactMethod, path string) error {
	for i, m := range methods {
		p := fmt.Sprintf("%s.contact_method[%d]", path, i)
		if m.ID == "" {
			return missing(p + ".id")
		}
		if m.Type == "" {
			return missing(p + ".type")
		}
		if m.Value == "" {
			return missing(p + ".value")
		}
	}
	return nil
}

func (c Company) validate(path string) error {
	if c.ID == "" {
		return missing(path + ".id")
	}
	if c.Name == "" {
		return missing(path + ".name")
	}
	if c.Logo.ID == "" {
		return missing(path + ".logo.id")
	}
	if c.Currency.ID == "" {
		return missing(path + ".currency.id")
	}
	if c.Currency.Code == "" {
		return missing(path + ".currency.code")
	}
	if c.Currency.Symbol == "" {
		return missing(path + ".currency.symbol")
	}
	if c.Timetable == nil {
		return missing(path + ".timetable")
	}
	if len(c.Timetable) > 7 {
		return &DecodeError{Field: path + ".timetable", Reason: "more than 7 entries"}
	}
	for i, tt := range c.Timetable {
		p := fmt.Sprintf("%s.timetable[%d]", path, i)
		if tt.ID == "" {
			return missing(p + ".id")
		}
		if tt.DayOfWeek < 0 || tt.DayOfWeek > 7 {
			return &DecodeError{Field: p + ".day_of_week", Reason: "out of range"}
		}
		if tt.StartTime == "" {
			return missing(p + ".start_time")
		}
		if tt.EndTime == "" {
			return missing(p + ".end_time")
		}
		if tt.Timezone == "" {
			return missing(p + ".timezone")
		}
	}
	if c.ServicesByCatalogue == nil {
		return missing(path + ".services_by_catalogue")
	}
	for i, sc := range c.ServicesByCatalogue {
		p := fmt.Sprintf("%s.services_by_catalogue[%d]", path, i)
		if sc.Catalogue.ID == "" {
			return missing(p + ".catalogue.id")
		}
		if sc.Catalogue.Name == "" {
			return missing(p + ".catalogue.name")
		}
		if sc.Services == nil {
			return missing(p + ".services")
		}
		for j, svc := range sc.Services {
			if err := svc.validate(fmt.Sprintf("%s.services[%d]", p, j)); err != nil {
				return err
			}
		}
	}
	if c.ContactMethod == nil {
		return missing(path + ".contact_method")
	}
	return validateContacts(c.ContactMethod, path)
}

func (svc Service) validate(path string) error {
	if svc.ID == "" {
		return missing(path + ".id")
	}
	if svc.Name == "" {
		return missing(path + ".name")
	}
	if svc.Duration == "" {
		return missing(path + ".duration")
	}
	return nil
}

func (b Booking) validate(path string) error {
	if b.ID == "" {
		return missing(path + ".id")
	}
	if err := b.Customer.validate(path + ".customer"); err != nil {
		return err
	}
	if b.Staff != nil {
		if err := b.Staff.validate(path + ".staff"); err != nil {
			return err
		}
	}
	if err := b.Service.validate(path + ".service"); err != nil {
		return err
	}
	if b.Status.ID == "" {
		return missing(path + ".status.id")
	}
	if b.Status.Name == "" {
		return missing(path + ".status.name")
	}
	if b.Status.CreatedAt == "" {
		return missing(path + ".status.created_at")
	}
	if b.StartTime == "" {
		return missing(path + ".start_time")
	}
	if b.EndTime == "" {
		return missing(path + ".end_time")
	}
	return nil
}

func missing(field string) *DecodeError {
	return &DecodeError{Field: field, Reason: "missing"}
}
