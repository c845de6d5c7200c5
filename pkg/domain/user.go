package domain

import (
	dErrors "almanah/pkg/domain-errors"
)

// UserRef is the normalized "current user" handed to the ledger. It is a value type,
// so callers cannot mutate the identity a request was authorized for.
type UserRef struct {
	id UserID
}

// NewUserRef builds a UserRef, rejecting the nil identifier.
func NewUserRef(userID UserID) (UserRef, error) {
	if userID.IsNil() {
		return UserRef{}, dErrors.New(dErrors.CodeInvalidIdentifier, "user id must not be nil")
	}
	return UserRef{id: userID}, nil
}

// MustUserRef is NewUserRef for fixtures and wiring code with known-good IDs.
func MustUserRef(userID UserID) UserRef {
	ref, err := NewUserRef(userID)
	if err != nil {
		panic(err)
	}
	return ref
}

func (u UserRef) ID() UserID { return u.id }

func (u UserRef) IsZero() bool { return u.id.IsNil() }

func (u UserRef) String() string { return u.id.String() }
