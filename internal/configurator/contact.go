package configurator

import "strings"

// Field names a contact form input.
type Field int

const (
	FieldFirstName Field = iota
	FieldLastName
	FieldEmail
	FieldPhone
)

// String returns the wire name of the field.
func (f Field) String() string {
	switch f {
	case FieldFirstName:
		return "first_name"
	case FieldLastName:
		return "last_name"
	case FieldEmail:
		return "email"
	case FieldPhone:
		return "phone"
	default:
		return "unknown"
	}
}

// Contact is the identity captured before the result stage.
type Contact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// Set updates a single field. Values are stored as typed.
func (c *Contact) Set(f Field, v string) {
	switch f {
	case FieldFirstName:
		c.FirstName = v
	case FieldLastName:
		c.LastName = v
	case FieldEmail:
		c.Email = v
	case FieldPhone:
		c.Phone = v
	}
}

// Get returns the value of a single field.
func (c Contact) Get(f Field) string {
	switch f {
	case FieldFirstName:
		return c.FirstName
	case FieldLastName:
		return c.LastName
	case FieldEmail:
		return c.Email
	case FieldPhone:
		return c.Phone
	default:
		return ""
	}
}

// Missing lists the required fields that are blank. Only presence is
// checked; email shape is not.
func (c Contact) Missing() []Field {
	var missing []Field
	for _, f := range []Field{FieldFirstName, FieldLastName, FieldEmail} {
		if strings.TrimSpace(c.Get(f)) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// Valid reports whether the contact can be submitted.
func (c Contact) Valid() bool {
	return len(c.Missing()) == 0
}

// FullName joins first and last name.
func (c Contact) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}
