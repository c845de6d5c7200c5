// Package domain holds typed identifiers shared across the ledger and catalog.
//
// Each identifier wraps a UUID so a template ID can never be passed where a printed
// card ID is expected. Parse functions are the only trust boundary: they reject
// empty, malformed and nil UUIDs with CodeInvalidIdentifier.
package domain

import (
	"github.com/google/uuid"

	dErrors "almanah/pkg/domain-errors"
)

type (
	UserID        uuid.UUID
	EventID       uuid.UUID
	TemplateID    uuid.UUID
	PrintedCardID uuid.UUID
	EntryID       uuid.UUID
)

func ParseUserID(s string) (UserID, error) {
	u, err := parseID("user id", s)
	return UserID(u), err
}

func ParseEventID(s string) (EventID, error) {
	u, err := parseID("event id", s)
	return EventID(u), err
}

func ParseTemplateID(s string) (TemplateID, error) {
	u, err := parseID("template id", s)
	return TemplateID(u), err
}

func ParsePrintedCardID(s string) (PrintedCardID, error) {
	u, err := parseID("printed card id", s)
	return PrintedCardID(u), err
}

func ParseEntryID(s string) (EntryID, error) {
	u, err := parseID("entry id", s)
	return EntryID(u), err
}

func parseID(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidIdentifier, kind+" is required")
	}
	// uuid.Parse also accepts urn and braced forms; only the canonical 36 char form is allowed.
	if len(s) != 36 {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidIdentifier, "invalid "+kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidIdentifier, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidIdentifier, kind+" must not be nil")
	}
	return u, nil
}

func (id UserID) String() string        { return uuid.UUID(id).String() }
func (id EventID) String() string       { return uuid.UUID(id).String() }
func (id TemplateID) String() string    { return uuid.UUID(id).String() }
func (id PrintedCardID) String() string { return uuid.UUID(id).String() }
func (id EntryID) String() string       { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id EventID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id TemplateID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id PrintedCardID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id EntryID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }

// MarshalText lets typed IDs render as canonical UUID strings in JSON and logs.
func (id UserID) MarshalText() ([]byte, error)        { return uuid.UUID(id).MarshalText() }
func (id EventID) MarshalText() ([]byte, error)       { return uuid.UUID(id).MarshalText() }
func (id TemplateID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id PrintedCardID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id EntryID) MarshalText() ([]byte, error)       { return uuid.UUID(id).MarshalText() }

// UnmarshalText decodes stored or serialized IDs. Request input goes through
// the Parse functions, which also reject the nil UUID.
func (id *UserID) UnmarshalText(b []byte) error        { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *EventID) UnmarshalText(b []byte) error       { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *TemplateID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *PrintedCardID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *EntryID) UnmarshalText(b []byte) error       { return (*uuid.UUID)(id).UnmarshalText(b) }

func NewEntryID() EntryID { return EntryID(uuid.New()) }
