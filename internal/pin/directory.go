package pin

import "golang.org/x/text/unicode/norm"

// Member is one entry of the remote member list.
type Member struct {
	ID   string
	Name string
}

// MemberDirectory is an immutable id→display-name snapshot, built once
// per run. It is never persisted; a fresh snapshot is fetched for every
// reconciliation so renames take effect on newly appended rows only.
type MemberDirectory struct {
	names map[string]string
}

// NewMemberDirectory builds a directory snapshot from a member list.
// Display names are NFC-normalized so that byte-different but visually
// identical names from the API produce stable row text.
func NewMemberDirectory(members []Member) MemberDirectory {
	names := make(map[string]string, len(members))
	for _, m := range members {
		if m.ID == "" {
			continue
		}
		names[m.ID] = norm.NFC.String(m.Name)
	}
	return MemberDirectory{names: names}
}

// Resolve returns the display name for id, or id unchanged when the
// directory has no entry for it. Unknown or deleted users must never
// break formatting.
func (d MemberDirectory) Resolve(id string) string {
	if name, ok := d.names[id]; ok {
		return name
	}
	return id
}

// Len reports the number of entries in the snapshot.
func (d MemberDirectory) Len() int { return len(d.names) }
