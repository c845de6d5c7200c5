package models

import (
	"slices"
	"time"

	id "almanah/pkg/domain"
)

// Album is the per-user list of ledger entry references, in claim order.
// It is derived from the ledger and can always be rebuilt from it.
type Album struct {
	UserID    id.UserID    `json:"userId"`
	EntryIDs  []id.EntryID `json:"entryIds"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// NewAlbum creates an empty album.
func NewAlbum(userID id.UserID, now time.Time) *Album {
	return &Album{UserID: userID, EntryIDs: []id.EntryID{}, CreatedAt: now, UpdatedAt: now}
}

func (a *Album) Contains(entryID id.EntryID) bool {
	return slices.Contains(a.EntryIDs, entryID)
}

// Append adds entryID once. It reports whether the album changed.
func (a *Album) Append(entryID id.EntryID, now time.Time) bool {
	if a.Contains(entryID) {
		return false
	}
	a.EntryIDs = append(a.EntryIDs, entryID)
	a.UpdatedAt = now
	return true
}

// MatchesEntries reports whether the album references exactly entries, each
// once. Order is not compared: entries claimed in the same instant have no
// stable order across stores.
func (a *Album) MatchesEntries(entries []*Entry) bool {
	if len(a.EntryIDs) != len(entries) {
		return false
	}
	want := make(map[id.EntryID]bool, len(entries))
	for _, e := range entries {
		want[e.ID] = true
	}
	for _, entryID := range a.EntryIDs {
		if !want[entryID] {
			return false
		}
		delete(want, entryID)
	}
	return true
}

// ReconciledEntryIDs repairs the album's references against entries. References
// that survive keep their position, stale or repeated ones are dropped, and
// missing entries are appended in the order given.
func (a *Album) ReconciledEntryIDs(entries []*Entry) []id.EntryID {
	live := make(map[id.EntryID]bool, len(entries))
	for _, e := range entries {
		live[e.ID] = true
	}
	out := make([]id.EntryID, 0, len(entries))
	kept := make(map[id.EntryID]bool, len(entries))
	for _, entryID := range a.EntryIDs {
		if live[entryID] && !kept[entryID] {
			out = append(out, entryID)
			kept[entryID] = true
		}
	}
	for _, e := range entries {
		if !kept[e.ID] {
			out = append(out, e.ID)
			kept[e.ID] = true
		}
	}
	return out
}

// Size is the number of referenced entries.
func (a *Album) Size() int {
	return len(a.EntryIDs)
}

func (a *Album) Clone() *Album {
	clone := *a
	clone.EntryIDs = slices.Clone(a.EntryIDs)
	return &clone
}
