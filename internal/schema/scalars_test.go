package schema

import (
	"testing"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID_Coerce(t *testing.T) {
	tt := []struct {
		name  string
		value string
		valid bool
	}{
		{name: "v4", value: "df870e39-6fcb-41eb-9461-0242ac11000b", valid: true},
		{name: "v1", value: "df870e39-6fcb-11eb-9461-0242ac11000b", valid: true},
		{name: "uppercase", value: "DF870E39-6FCB-41EB-9461-0242AC11000B", valid: true},
		{name: "empty", value: "", valid: false},
		{name: "not_a_uuid", value: "not-a-uuid", valid: false},
		{name: "no_hyphens", value: "df870e396fcb41eb94610242ac11000b", valid: false},
		{name: "bad_version", value: "df870e39-6fcb-01eb-9461-0242ac11000b", valid: false},
		{name: "bad_variant", value: "df870e39-6fcb-41eb-1461-0242ac11000b", valid: false},
		{name: "too_short", value: "df870e39-6fcb-41eb-9461-0242ac11000", valid: false},
		{name: "non_hex", value: "df870e39-6fcb-41eb-9461-0242ac11000g", valid: false},
	}

	for i := range tt {
		tc := tt[i]
		t.Run(tc.name, func(t *testing.T) {
			serialized := UUID.Serialize(tc.value)
			parsed := UUID.ParseValue(tc.value)
			literal := UUID.ParseLiteral(&ast.StringValue{Value: tc.value})

			if tc.valid {
				// round-trip keeps the input text form
				assert.Equal(t, tc.value, serialized)
				assert.Equal(t, tc.value, parsed)
				assert.Equal(t, tc.value, literal)
			} else {
				assert.Nil(t, serialized)
				assert.Nil(t, parsed)
				assert.Nil(t, literal)
			}
		})
	}
}

func TestUUID_ParseLiteral_WrongKind(t *testing.T) {
	assert.Nil(t, UUID.ParseLiteral(&ast.IntValue{Value: "42"}))
	assert.Nil(t, UUID.ParseLiteral(&ast.FloatValue{Value: "4.2"}))
	assert.Nil(t, UUID.ParseLiteral(&ast.EnumValue{Value: "UUID"}))
	assert.Nil(t, UUID.ParseLiteral(&ast.ObjectValue{}))
}

func TestMemberTypeID_Coerce(t *testing.T) {
	require.Equal(t, "BASIC", MemberTypeID.Serialize("BASIC"))
	require.Equal(t, "BASIC", MemberTypeID.ParseValue("BASIC"))
	require.Equal(t, "BASIC", MemberTypeID.ParseLiteral(&ast.StringValue{Value: "BASIC"}))

	// no format validation, anything is coerced to string
	require.Equal(t, "42", MemberTypeID.Serialize(42))

	// but only string literals are accepted inline
	require.Nil(t, MemberTypeID.ParseLiteral(&ast.IntValue{Value: "42"}))
}
