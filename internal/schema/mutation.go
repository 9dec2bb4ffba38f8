package schema

import (
	"errors"
	"fmt"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/orpheus-net/orpheus/internal/storage"
)

// Domain validation errors, distinct from malformed-input scalar errors.
var (
	errInvalidYearOfBirth = errors.New("invalid yearOfBirth")
	errInvalidUserID      = errors.New("invalid userId")
)

// Statuses returned by delete and link mutations.
const (
	userDeletedStatus    = "USER_DELETED"
	postDeletedStatus    = "POST_DELETED"
	profileDeletedStatus = "PROFILE_DELETED"
	subscribedStatus     = "SUBSCRIBED"
	unsubscribedStatus   = "UNSUBSCRIBED"
)

// validateYearOfBirth checks the 1900..currentYear bound, currentYear taken
// from the wall clock at the moment of the mutation.
func validateYearOfBirth(year int) error {
	if year < 1900 || year > time.Now().Year() {
		return errInvalidYearOfBirth
	}

	return nil
}

func (b *builder) mutation() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutations",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type: graphql.NewNonNull(b.user),
				Args: graphql.FieldConfigArgument{
					"dto": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.createUserInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					dto := p.Args["dto"].(map[string]interface{})

					u, err := b.storage.CreateUser(p.Context, &storage.CreateUserParams{
						Name:    dto["name"].(string),
						Balance: toFloat(dto["balance"]),
					})
					if err != nil {
						return nil, fmt.Errorf("failed to create user: %w", err)
					}

					return u, nil
				},
			},

			"createPost": &graphql.Field{
				Type: graphql.NewNonNull(b.post),
				Args: graphql.FieldConfigArgument{
					"dto": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.createPostInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					dto := p.Args["dto"].(map[string]interface{})

					// authorId existence is the storage's referential
					// integrity to enforce.
					post, err := b.storage.CreatePost(p.Context, &storage.CreatePostParams{
						Title:    dto["title"].(string),
						Content:  dto["content"].(string),
						AuthorID: dto["authorId"].(string),
					})
					if err != nil {
						return nil, fmt.Errorf("failed to create post: %w", err)
					}

					return post, nil
				},
			},

			"createProfile": &graphql.Field{
				Type: graphql.NewNonNull(b.profile),
				Args: graphql.FieldConfigArgument{
					"dto": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.createProfileInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					dto := p.Args["dto"].(map[string]interface{})

					year := dto["yearOfBirth"].(int)
					if err := validateYearOfBirth(year); err != nil {
						return nil, err
					}

					profile, err := b.storage.CreateProfile(p.Context, &storage.CreateProfileParams{
						IsMale:       dto["isMale"].(bool),
						YearOfBirth:  year,
						UserID:       dto["userId"].(string),
						MemberTypeID: dto["memberTypeId"].(string),
					})
					if err != nil {
						return nil, fmt.Errorf("failed to create profile: %w", err)
					}

					return profile, nil
				},
			},

			"changeUser": &graphql.Field{
				Type: graphql.NewNonNull(b.user),
				Args: graphql.FieldConfigArgument{
					"id":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(UUID)},
					"dto": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.changeUserInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					dto := p.Args["dto"].(map[string]interface{})

					params := storage.UpdateUserParams{
						Name: optString(dto, "name"),
					}
					if v, ok := dto["balance"]; ok {
						f := toFloat(v)
						params.Balance = &f
					}

					u, err := b.storage.UpdateUser(p.Context, p.Args["id"].(string), &params)
					if err != nil {
						if errors.Is(err, storage.ErrNotFound) {
							return nil, errUserNotFound
						}

						return nil, fmt.Errorf("failed to update user: %w", err)
					}

					return u, nil
				},
			},

			"changePost": &graphql.Field{
				Type: graphql.NewNonNull(b.post),
				Args: graphql.FieldConfigArgument{
					"id":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(UUID)},
					"dto": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.changePostInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					dto := p.Args["dto"].(map[string]interface{})

					params := storage.UpdatePostParams{
						Title:   optString(dto, "title"),
						Content: optString(dto, "content"),
					}

					post, err := b.storage.UpdatePost(p.Context, p.Args["id"].(string), &params)
					if err != nil {
						if errors.Is(err, storage.ErrNotFound) {
							return nil, errPostNotFound
						}

						return nil, fmt.Errorf("failed to update post: %w", err)
					}

					return post, nil
				},
			},

			"changeProfile": &graphql.Field{
				Type: graphql.NewNonNull(b.profile),
				Args: graphql.FieldConfigArgument{
					"id":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(UUID)},
					"dto": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.changeProfileInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					dto := p.Args["dto"].(map[string]interface{})

					params := storage.UpdateProfileParams{
						MemberTypeID: optString(dto, "memberTypeId"),
					}

					if v, ok := dto["isMale"].(bool); ok {
						params.IsMale = &v
					}

					if v, ok := dto["yearOfBirth"].(int); ok {
						if err := validateYearOfBirth(v); err != nil {
							return nil, err
						}
						params.YearOfBirth = &v
					}

					if v, ok := dto["userId"].(string); ok {
						if _, err := b.storage.GetUser(p.Context, v); err != nil {
							if errors.Is(err, storage.ErrNotFound) {
								return nil, errInvalidUserID
							}

							return nil, fmt.Errorf("failed to check user: %w", err)
						}
						params.UserID = &v
					}

					profile, err := b.storage.UpdateProfile(p.Context, p.Args["id"].(string), &params)
					if err != nil {
						if errors.Is(err, storage.ErrNotFound) {
							return nil, errProfileNotFound
						}

						return nil, fmt.Errorf("failed to update profile: %w", err)
					}

					return profile, nil
				},
			},

			"deleteUser": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(UUID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := b.storage.DeleteUser(p.Context, p.Args["id"].(string)); err != nil {
						if errors.Is(err, storage.ErrNotFound) {
							return nil, errUserNotFound
						}

						return nil, fmt.Errorf("failed to delete user: %w", err)
					}

					return userDeletedStatus, nil
				},
			},

			"deletePost": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(UUID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := b.storage.DeletePost(p.Context, p.Args["id"].(string)); err != nil {
						if errors.Is(err, storage.ErrNotFound) {
							return nil, errPostNotFound
						}

						return nil, fmt.Errorf("failed to delete post: %w", err)
					}

					return postDeletedStatus, nil
				},
			},

			"deleteProfile": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(UUID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := b.storage.DeleteProfile(p.Context, p.Args["id"].(string)); err != nil {
						if errors.Is(err, storage.ErrNotFound) {
							return nil, errProfileNotFound
						}

						return nil, fmt.Errorf("failed to delete profile: %w", err)
					}

					return profileDeletedStatus, nil
				},
			},

			"subscribeTo": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Args: graphql.FieldConfigArgument{
					"userId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(UUID)},
					"authorId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(UUID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := b.storage.Subscribe(p.Context, p.Args["userId"].(string), p.Args["authorId"].(string)); err != nil {
						return nil, fmt.Errorf("failed to subscribe: %w", err)
					}

					return subscribedStatus, nil
				},
			},

			"unsubscribeFrom": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Args: graphql.FieldConfigArgument{
					"userId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(UUID)},
					"authorId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(UUID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := b.storage.Unsubscribe(p.Context, p.Args["userId"].(string), p.Args["authorId"].(string)); err != nil {
						return nil, fmt.Errorf("failed to unsubscribe: %w", err)
					}

					return unsubscribedStatus, nil
				},
			},
		},
	})
}

func optString(dto map[string]interface{}, key string) *string {
	if v, ok := dto[key].(string); ok {
		return &v
	}

	return nil
}

// toFloat widens the int the executor produces for whole-number Float input.
func toFloat(v interface{}) float64 {
	switch v := v.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}
