package schema

import (
	"github.com/graphql-go/graphql"
)

// buildInputs declares the mutation payload shapes. Change variants keep every
// field optional, absence of a key in the decoded dto means the caller didn't
// supply the field.
func (b *builder) buildInputs() {
	b.createUserInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateUserInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"balance": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		},
	})

	b.createPostInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreatePostInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"content":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"authorId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(UUID)},
		},
	})

	b.createProfileInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateProfileInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"isMale":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Boolean)},
			"yearOfBirth":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
			"userId":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(UUID)},
			"memberTypeId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(MemberTypeID)},
		},
	})

	b.changeUserInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ChangeUserInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":    &graphql.InputObjectFieldConfig{Type: graphql.String},
			"balance": &graphql.InputObjectFieldConfig{Type: graphql.Float},
		},
	})

	b.changePostInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ChangePostInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"content": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	b.changeProfileInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ChangeProfileInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"isMale":       &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"yearOfBirth":  &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"userId":       &graphql.InputObjectFieldConfig{Type: UUID},
			"memberTypeId": &graphql.InputObjectFieldConfig{Type: MemberTypeID},
		},
	})
}
