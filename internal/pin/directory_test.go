package pin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_KnownUser(t *testing.T) {
	dir := NewMemberDirectory([]Member{{ID: "U123", Name: "alice"}})
	assert.Equal(t, "alice", dir.Resolve("U123"))
}

func TestResolve_UnknownUserFallsBackToID(t *testing.T) {
	dir := NewMemberDirectory(nil)
	assert.Equal(t, "U999", dir.Resolve("U999"), "unknown id must pass through unchanged")
}

func TestNewMemberDirectory_NormalizesNames(t *testing.T) {
	// 'e' + combining acute must normalize to the precomposed "é".
	dir := NewMemberDirectory([]Member{{ID: "U1", Name: "Rene\u0301e"}})
	assert.Equal(t, "Renée", dir.Resolve("U1"))
}

func TestNewMemberDirectory_SkipsEmptyIDs(t *testing.T) {
	dir := NewMemberDirectory([]Member{{ID: "", Name: "ghost"}, {ID: "U1", Name: "alice"}})
	assert.Equal(t, 1, dir.Len())
}
