package schema

import (
	"fmt"
	"regexp"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// uuidRegExp accepts the canonical 8-4-4-4-12 text form with a valid version
// and variant nibble.
var uuidRegExp = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// coerceUUID coerces a value to string and validates it against the canonical
// UUID form. It returns nil on failure, which graphql-go reports as an
// invalid-value error at the boundary the scalar is used on.
func coerceUUID(value interface{}) interface{} {
	s := fmt.Sprintf("%v", value)
	if !uuidRegExp.MatchString(s) {
		return nil
	}

	return s
}

func coerceString(value interface{}) interface{} {
	return fmt.Sprintf("%v", value)
}

// UUID is a scalar type representing a valid UUID string. Malformed
// identifiers are rejected before they reach storage or a response.
var UUID = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "UUID",
	Description: "UUID scalar type representing a valid UUID string",
	Serialize:   coerceUUID,
	ParseValue:  coerceUUID,
	ParseLiteral: func(valueAST ast.Value) interface{} {
		if v, ok := valueAST.(*ast.StringValue); ok {
			return coerceUUID(v.Value)
		}

		return nil
	},
})

// MemberTypeID is a member tier identifier (e.g. BASIC, BUSINESS). The set of
// identifiers is owned by seed data, so no format validation is done here.
var MemberTypeID = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "MemberTypeId",
	Description: "Member type identifier (e.g. BASIC, BUSINESS). Treated as string.",
	Serialize:   coerceString,
	ParseValue:  coerceString,
	ParseLiteral: func(valueAST ast.Value) interface{} {
		if v, ok := valueAST.(*ast.StringValue); ok {
			return v.Value
		}

		return nil
	},
})
