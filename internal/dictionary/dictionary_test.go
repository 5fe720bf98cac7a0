package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTitle(t *testing.T) {
	assert.True(t, IsTitle("heer"))
	assert.True(t, IsTitle("mevr"))
	assert.False(t, IsTitle("minister"))
}

func TestIsMonth(t *testing.T) {
	assert.True(t, IsMonth("maart"))
	assert.False(t, IsMonth("maandag"))
}

func TestRoleWordIndex(t *testing.T) {
	roles, ok := RoleWordIndex["minister"]
	assert.True(t, ok)
	assert.Contains(t, roles, "politician")
}

func TestSettlementSchemaTypesDefaultPreservesTypo(t *testing.T) {
	r := Roles["settlement"]
	assert.Contains(t, r.SchemaTypes, "StreetDistrict")
	assert.NotContains(t, r.SchemaTypes, "Street")
}

func TestRoleSchemaTypeIndex(t *testing.T) {
	roles, ok := RoleSchemaTypeIndex["Politician"]
	assert.True(t, ok)
	assert.Contains(t, roles, "politician")
}

func TestSubjectsLookup(t *testing.T) {
	words, ok := Subjects["sports"]
	assert.True(t, ok)
	assert.Contains(t, words, "voetbal")
}

func TestIsUnwanted(t *testing.T) {
	assert.True(t, IsUnwanted("de"))
	assert.False(t, IsUnwanted("minister"))
}
