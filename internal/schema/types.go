package schema

import (
	"errors"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/orpheus-net/orpheus/internal/entities"
	"github.com/orpheus-net/orpheus/internal/storage"
)

var errUnexpectedSource = errors.New("unexpected source type")

// builder holds the object types so field thunks can reference each other
// across the cyclic User/Post/Profile graph.
type builder struct {
	storage storage.Storage

	user       *graphql.Object
	post       *graphql.Object
	profile    *graphql.Object
	memberType *graphql.Object

	createUserInput    *graphql.InputObject
	createPostInput    *graphql.InputObject
	createProfileInput *graphql.InputObject
	changeUserInput    *graphql.InputObject
	changePostInput    *graphql.InputObject
	changeProfileInput *graphql.InputObject
}

func newBuilder(s storage.Storage) *builder {
	b := &builder{storage: s}

	b.memberType = graphql.NewObject(graphql.ObjectConfig{
		Name: "MemberType",
		Fields: graphql.Fields{
			"id":                 &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"discount":           &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"postsLimitPerMonth": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	b.user = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":      &graphql.Field{Type: graphql.NewNonNull(UUID)},
				"name":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"balance": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},

				"profile": &graphql.Field{Type: b.profile},
				"posts":   &graphql.Field{Type: graphql.NewList(b.post)},
				"memberType": &graphql.Field{
					Type:    b.memberType,
					Resolve: b.resolveUserMemberType,
				},

				"userSubscribedTo": &graphql.Field{
					Type:    graphql.NewList(b.user),
					Resolve: b.resolveFollowedUsers,
				},
				"subscribedToUser": &graphql.Field{
					Type:    graphql.NewList(b.user),
					Resolve: b.resolveFollowerUsers,
				},
			}
		}),
	})

	b.post = graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":       &graphql.Field{Type: graphql.NewNonNull(UUID)},
				"title":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"content":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"authorId": &graphql.Field{Type: graphql.NewNonNull(UUID)},

				"author": &graphql.Field{
					Type:    b.user,
					Resolve: b.resolvePostAuthor,
				},
			}
		}),
	})

	b.profile = graphql.NewObject(graphql.ObjectConfig{
		Name: "Profile",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":          &graphql.Field{Type: graphql.NewNonNull(UUID)},
				"isMale":      &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
				"yearOfBirth": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},

				"userId":       &graphql.Field{Type: graphql.NewNonNull(UUID)},
				"memberTypeId": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},

				"user": &graphql.Field{
					Type:    b.user,
					Resolve: b.resolveProfileUser,
				},
				"memberType": &graphql.Field{
					Type:    b.memberType,
					Resolve: b.resolveProfileMemberType,
				},
			}
		}),
	})

	b.buildInputs()

	return b
}

// resolveFollowedUsers reshapes the loaded outgoing link records into a flat
// list of followed users.
func (b *builder) resolveFollowedUsers(p graphql.ResolveParams) (interface{}, error) {
	u, ok := p.Source.(*entities.User)
	if !ok {
		return nil, errUnexpectedSource
	}

	return entities.FollowedUsers(u.SubscribedTo), nil
}

// resolveFollowerUsers is symmetric over incoming link records.
func (b *builder) resolveFollowerUsers(p graphql.ResolveParams) (interface{}, error) {
	u, ok := p.Source.(*entities.User)
	if !ok {
		return nil, errUnexpectedSource
	}

	return entities.FollowerUsers(u.Subscribers), nil
}

func (b *builder) resolveUserMemberType(p graphql.ResolveParams) (interface{}, error) {
	u, ok := p.Source.(*entities.User)
	if !ok {
		return nil, errUnexpectedSource
	}

	if u.Profile == nil {
		return nil, nil
	}

	if u.Profile.MemberType != nil {
		return u.Profile.MemberType, nil
	}

	return b.getMemberType(p, u.Profile.MemberTypeID)
}

func (b *builder) resolvePostAuthor(p graphql.ResolveParams) (interface{}, error) {
	post, ok := p.Source.(*entities.Post)
	if !ok {
		return nil, errUnexpectedSource
	}

	if post.Author != nil {
		return post.Author, nil
	}

	u, err := b.storage.GetUser(p.Context, post.AuthorID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get author: %w", err)
	}

	return u, nil
}

func (b *builder) resolveProfileUser(p graphql.ResolveParams) (interface{}, error) {
	profile, ok := p.Source.(*entities.Profile)
	if !ok {
		return nil, errUnexpectedSource
	}

	if profile.User != nil {
		return profile.User, nil
	}

	u, err := b.storage.GetUser(p.Context, profile.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

func (b *builder) resolveProfileMemberType(p graphql.ResolveParams) (interface{}, error) {
	profile, ok := p.Source.(*entities.Profile)
	if !ok {
		return nil, errUnexpectedSource
	}

	if profile.MemberType != nil {
		return profile.MemberType, nil
	}

	return b.getMemberType(p, profile.MemberTypeID)
}

func (b *builder) getMemberType(p graphql.ResolveParams, id string) (interface{}, error) {
	mt, err := b.storage.GetMemberType(p.Context, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get member type: %w", err)
	}

	return mt, nil
}
