package model

import (
	"testing"
)

func validPerson() Person {
	return Person{
		Name:        "Alice",
		Coordinates: Coordinates{X: 10, Y: -3.5},
		Height:      180,
		Weight:      70,
		PassportID:  "AB1234",
		EyeColor:    ColorGreen,
		Location:    Location{X: 1.0, Y: 2.0, Z: 3},
	}
}

func TestPersonValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(p *Person)
		wantErr bool
	}{
		{"valid", func(p *Person) {}, false},
		{"empty name", func(p *Person) { p.Name = "" }, true},
		{"whitespace name", func(p *Person) { p.Name = "   " }, true},
		{"zero height", func(p *Person) { p.Height = 0 }, true},
		{"negative height", func(p *Person) { p.Height = -1 }, true},
		{"zero weight", func(p *Person) { p.Weight = 0 }, true},
		{"short passport", func(p *Person) { p.PassportID = "ab" }, true},
		{"no passport", func(p *Person) { p.PassportID = "" }, false},
		{"no eye color", func(p *Person) { p.EyeColor = ColorUnset }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPerson()
			tc.mutate(&p)
			err := p.Validate()
			if tc.wantErr && err == nil {
				t.Errorf("expected validation error, got none")
			} else if !tc.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestColorRoundTrip(t *testing.T) {
	for c := ColorUnset; c <= ColorBrown; c++ {
		parsed, err := ParseColor(c.String())
		if err != nil {
			t.Fatalf("ParseColor(%q) failed: %v", c.String(), err)
		}
		if parsed != c {
			t.Errorf("color round trip mismatch: %v != %v", parsed, c)
		}
	}

	if _, err := ParseColor("violet"); err == nil {
		t.Errorf("expected error for unknown color")
	}
}

func TestColorJSON(t *testing.T) {
	b, err := ColorBlue.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(b) != `"blue"` {
		t.Errorf("unexpected JSON: %s", b)
	}

	var c Color
	if err := c.UnmarshalJSON(b); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if c != ColorBlue {
		t.Errorf("expected blue, got %v", c)
	}
}
