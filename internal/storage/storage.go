// Package storage contains a storage interface.
package storage

import (
	"context"
	"errors"

	"github.com/orpheus-net/orpheus/internal/entities"
)

//go:generate mockgen -destination=./mock/storage.go -package=mock -source=storage.go

// ErrNotFound returned when requested entity wasn't found.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists returned when a unique constraint is violated.
var ErrAlreadyExists = errors.New("already exists")

// Storage provides methods for interacting with database.
type Storage interface {
	Ping(ctx context.Context) error

	ListUsers(ctx context.Context) ([]*entities.User, error)
	GetUser(ctx context.Context, id string) (*entities.User, error)
	CreateUser(ctx context.Context, p *CreateUserParams) (*entities.User, error)
	UpdateUser(ctx context.Context, id string, p *UpdateUserParams) (*entities.User, error)
	DeleteUser(ctx context.Context, id string) error

	ListPosts(ctx context.Context) ([]*entities.Post, error)
	GetPost(ctx context.Context, id string) (*entities.Post, error)
	CreatePost(ctx context.Context, p *CreatePostParams) (*entities.Post, error)
	UpdatePost(ctx context.Context, id string, p *UpdatePostParams) (*entities.Post, error)
	DeletePost(ctx context.Context, id string) error

	ListProfiles(ctx context.Context) ([]*entities.Profile, error)
	GetProfile(ctx context.Context, id string) (*entities.Profile, error)
	CreateProfile(ctx context.Context, p *CreateProfileParams) (*entities.Profile, error)
	UpdateProfile(ctx context.Context, id string, p *UpdateProfileParams) (*entities.Profile, error)
	DeleteProfile(ctx context.Context, id string) error

	ListMemberTypes(ctx context.Context) ([]*entities.MemberType, error)
	GetMemberType(ctx context.Context, id string) (*entities.MemberType, error)

	Subscribe(ctx context.Context, subscriberID, authorID string) error
	Unsubscribe(ctx context.Context, subscriberID, authorID string) error
}

// CreateUserParams ...
type CreateUserParams struct {
	Name    string
	Balance float64
}

// UpdateUserParams is a partial update, nil field means "leave untouched".
type UpdateUserParams struct {
	Name    *string
	Balance *float64
}

// CreatePostParams ...
type CreatePostParams struct {
	Title    string
	Content  string
	AuthorID string
}

// UpdatePostParams is a partial update, nil field means "leave untouched".
type UpdatePostParams struct {
	Title   *string
	Content *string
}

// CreateProfileParams ...
type CreateProfileParams struct {
	IsMale       bool
	YearOfBirth  int
	UserID       string
	MemberTypeID string
}

// UpdateProfileParams is a partial update, nil field means "leave untouched".
type UpdateProfileParams struct {
	IsMale       *bool
	YearOfBirth  *int
	UserID       *string
	MemberTypeID *string
}
