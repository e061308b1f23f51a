package model

import (
	"fmt"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Value Types
// --------------------------------------------------------------------------

// Color is the eye color of a Person. The zero value means "not specified".
type Color uint8

const (
	ColorUnset Color = iota
	ColorGreen
	ColorBlue
	ColorYellow
	ColorOrange
	ColorBrown
)

// String returns the lowercase name of the color.
func (c Color) String() string {
	switch c {
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorYellow:
		return "yellow"
	case ColorOrange:
		return "orange"
	case ColorBrown:
		return "brown"
	default:
		return ""
	}
}

// ParseColor converts a color name to a Color. An empty string yields
// ColorUnset, any other unknown name is an error.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ColorUnset, nil
	case "green":
		return ColorGreen, nil
	case "blue":
		return ColorBlue, nil
	case "yellow":
		return ColorYellow, nil
	case "orange":
		return ColorOrange, nil
	case "brown":
		return ColorBrown, nil
	default:
		return ColorUnset, fmt.Errorf("unknown color: %q", s)
	}
}

// MarshalJSON implements the json.Marshaler interface for Color.
// This allows Color to be serialized as a string in JSON.
func (c Color) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface for Color.
func (c *Color) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Coordinates is the position of a Person on the map.
type Coordinates struct {
	X int64   `json:"x"`
	Y float64 `json:"y"`
}

// Location is the place a Person currently resides.
type Location struct {
	X float64 `json:"x"`
	Y float32 `json:"y"`
	Z int     `json:"z"`
}

// --------------------------------------------------------------------------
// Person
// --------------------------------------------------------------------------

// Person is one record of the shared collection.
//
// The ID is assigned by the backing store on insert; client-supplied IDs are
// ignored for ADD operations. Owner is the login of the user who created the
// record and constrains who may mutate it.
type Person struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	Height      int         `json:"height"`
	Weight      int64       `json:"weight"`
	PassportID  string      `json:"passport_id,omitempty"`
	EyeColor    Color       `json:"eye_color,omitempty"`
	Location    Location    `json:"location"`
	Owner       string      `json:"owner,omitempty"`
	CreatedAt   time.Time   `json:"created_at,omitempty"`
}

// Validate checks the field constraints of the record. It returns the first
// violation found, or nil if the record is well-formed.
func (p *Person) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name must not be empty")
	}
	if p.Height <= 0 {
		return fmt.Errorf("height must be greater than 0, got %d", p.Height)
	}
	if p.Weight <= 0 {
		return fmt.Errorf("weight must be greater than 0, got %d", p.Weight)
	}
	if p.PassportID != "" && len(p.PassportID) < 4 {
		return fmt.Errorf("passport id must be at least 4 characters, got %q", p.PassportID)
	}
	return nil
}

// String returns a one-line human readable rendering of the record.
func (p *Person) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Person{id=%d, name=%q, coordinates=(%d, %g), height=%d, weight=%d",
		p.ID, p.Name, p.Coordinates.X, p.Coordinates.Y, p.Height, p.Weight)
	if p.PassportID != "" {
		fmt.Fprintf(&sb, ", passport=%s", p.PassportID)
	}
	if p.EyeColor != ColorUnset {
		fmt.Fprintf(&sb, ", eyes=%s", p.EyeColor)
	}
	fmt.Fprintf(&sb, ", location=(%g, %g, %d)", p.Location.X, p.Location.Y, p.Location.Z)
	if p.Owner != "" {
		fmt.Fprintf(&sb, ", owner=%s", p.Owner)
	}
	sb.WriteString("}")
	return sb.String()
}
