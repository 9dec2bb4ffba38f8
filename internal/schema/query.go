package schema

import (
	"errors"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/orpheus-net/orpheus/internal/storage"
)

// By-id lookup misses are reported as explicit named errors, uniformly for
// every entity.
var (
	errUserNotFound       = errors.New("user not found")
	errPostNotFound       = errors.New("post not found")
	errProfileNotFound    = errors.New("profile not found")
	errMemberTypeNotFound = errors.New("member type not found")
)

func (b *builder) query() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQueryType",
		Fields: graphql.Fields{
			"users": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.user))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					uu, err := b.storage.ListUsers(p.Context)
					if err != nil {
						return nil, fmt.Errorf("failed to list users: %w", err)
					}

					return uu, nil
				},
			},

			"user": &graphql.Field{
				Type: b.user,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(UUID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					u, err := b.storage.GetUser(p.Context, p.Args["id"].(string))
					if err != nil {
						if errors.Is(err, storage.ErrNotFound) {
							return nil, errUserNotFound
						}

						return nil, fmt.Errorf("failed to get user: %w", err)
					}

					return u, nil
				},
			},

			"posts": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.post))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pp, err := b.storage.ListPosts(p.Context)
					if err != nil {
						return nil, fmt.Errorf("failed to list posts: %w", err)
					}

					return pp, nil
				},
			},

			"post": &graphql.Field{
				Type: b.post,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(UUID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					post, err := b.storage.GetPost(p.Context, p.Args["id"].(string))
					if err != nil {
						if errors.Is(err, storage.ErrNotFound) {
							return nil, errPostNotFound
						}

						return nil, fmt.Errorf("failed to get post: %w", err)
					}

					return post, nil
				},
			},

			"profiles": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.profile))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pp, err := b.storage.ListProfiles(p.Context)
					if err != nil {
						return nil, fmt.Errorf("failed to list profiles: %w", err)
					}

					return pp, nil
				},
			},

			"profile": &graphql.Field{
				Type: b.profile,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(UUID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					profile, err := b.storage.GetProfile(p.Context, p.Args["id"].(string))
					if err != nil {
						if errors.Is(err, storage.ErrNotFound) {
							return nil, errProfileNotFound
						}

						return nil, fmt.Errorf("failed to get profile: %w", err)
					}

					return profile, nil
				},
			},

			"memberTypes": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.memberType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					mm, err := b.storage.ListMemberTypes(p.Context)
					if err != nil {
						return nil, fmt.Errorf("failed to list member types: %w", err)
					}

					return mm, nil
				},
			},

			"memberType": &graphql.Field{
				Type: b.memberType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(MemberTypeID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					mt, err := b.storage.GetMemberType(p.Context, p.Args["id"].(string))
					if err != nil {
						if errors.Is(err, storage.ErrNotFound) {
							return nil, errMemberTypeNotFound
						}

						return nil, fmt.Errorf("failed to get member type: %w", err)
					}

					return mt, nil
				},
			},
		},
	})
}
