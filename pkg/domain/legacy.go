package domain

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// legacyNamespace seeds the deterministic mapping from 24-hex document IDs to UUIDs.
var legacyNamespace = uuid.MustParse("6f0c5b8e-3a51-4c1e-9a57-2d6b8f4e1c90")

// Legacy ID kinds. The kind is hashed with the hex so equal hex values of
// different collections never collide.
const (
	LegacyKindUser        = "user"
	LegacyKindEvent       = "event"
	LegacyKindTemplate    = "card_template"
	LegacyKindPrintedCard = "printed_card"
	LegacyKindEntry       = "user_card"
)

// IsLegacyObjectID reports whether s looks like a 12-byte document ID in hex.
func IsLegacyObjectID(s string) bool {
	if len(s) != 24 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// LegacyUUID maps a legacy document ID to a stable UUID (SHA-1 name based).
func LegacyUUID(kind, objectIDHex string) uuid.UUID {
	return uuid.NewSHA1(legacyNamespace, []byte(kind+":"+strings.ToLower(objectIDHex)))
}

// ResolveUserID accepts either a UUID or a legacy 24-hex user ID.
func ResolveUserID(raw string) (UserID, error) {
	if IsLegacyObjectID(raw) {
		return UserID(LegacyUUID(LegacyKindUser, raw)), nil
	}
	return ParseUserID(raw)
}
