//go:build go1.18

package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParsePrintedCardID checks that parsing scanned input never panics and
// always returns either a valid ID or an error.
func FuzzParsePrintedCardID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("'; DROP TABLE printed_cards;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("550e8400-e29b-41d4-a716-446655440000\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParsePrintedCardID(input)

		if err == nil {
			if id.IsNil() {
				t.Error("nil ID accepted")
			}
			roundTrip, err2 := ParsePrintedCardID(id.String())
			if err2 != nil {
				t.Errorf("valid ID failed round-trip: %v", err2)
			}
			if roundTrip != id {
				t.Error("round-trip changed ID value")
			}
		}

		if !utf8.ValidString(input) && err == nil {
			t.Error("non-UTF8 input was accepted")
		}
	})
}

// FuzzParseAllIDs ensures all ID types have consistent behavior.
func FuzzParseAllIDs(f *testing.F) {
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("")
	f.Add("invalid")

	f.Fuzz(func(t *testing.T, input string) {
		_, errUser := ParseUserID(input)
		_, errEvent := ParseEventID(input)
		_, errTemplate := ParseTemplateID(input)
		_, errCard := ParsePrintedCardID(input)
		_, errEntry := ParseEntryID(input)

		accepted := errUser == nil
		for _, err := range []error{errEvent, errTemplate, errCard, errEntry} {
			if (err == nil) != accepted {
				t.Error("inconsistent parsing across ID types")
			}
		}
	})
}
