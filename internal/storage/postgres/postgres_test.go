//+build integration

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	m "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/orpheus-net/orpheus/internal/storage"
)

var (
	db  *sql.DB
	ctx = context.Background()
	s   storage.Storage
)

func TestMain(m *testing.M) {
	shutdown := setup()

	s = New(db)

	code := m.Run()
	shutdown()
	os.Exit(code)
}

func setup() func() {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:12",
		Env:          map[string]string{"POSTGRES_PASSWORD": "root"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
	})
	if err != nil {
		logrus.WithError(err).Fatalf("failed to create container")
	}

	if err := c.Start(ctx); err != nil {
		logrus.WithError(err).Fatal("failed to start container")
	}

	host, err := c.Host(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("failed to get host")
	}

	port, err := c.MappedPort(ctx, "5432")
	if err != nil {
		logrus.WithError(err).Fatal("failed to map port")
	}

	dsn := fmt.Sprintf("host=%s port=%d user=postgres password=root sslmode=disable", host, port.Int())

	db, err = sql.Open("postgres", dsn)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open connection")
	}

	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("failed to ping postgres")
	}

	shutdownFn := func() {
		if c != nil {
			c.Terminate(ctx)
		}
	}

	migrate("postgres", "root", host, "postgres", port.Int())

	return shutdownFn
}

func migrate(username, password, hostname, dbname string, port int) {
	_, currFile, _, ok := runtime.Caller(0)
	if !ok {
		logrus.Fatal("failed to get current file location")
	}

	migrations := filepath.Join(currFile, "../../../../scripts/migrations/postgres/")

	migrator, err := m.New(
		fmt.Sprintf("file://%s", migrations),
		fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			username, password, hostname, port, dbname),
	)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create migrator")
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil {
		logrus.WithError(err).Fatal("failed to migrate")
	}
}

func cleanup(t *testing.T) {
	_, err := db.ExecContext(ctx, `DELETE FROM subscription`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `DELETE FROM profile`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `DELETE FROM post`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `DELETE FROM "user"`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `DELETE FROM member_type`)
	require.NoError(t, err)
}

func seedMemberTypes(t *testing.T) {
	_, err := db.ExecContext(ctx, `
		INSERT INTO member_type(id, discount, posts_limit_per_month)
		VALUES ('BASIC', 2.3, 5), ('BUSINESS', 7.7, 100)
	`)
	require.NoError(t, err)
}

func TestPg_Ping(t *testing.T) {
	require.NoError(t, s.Ping(ctx))
}

func TestPg_CreateUser(t *testing.T) {
	defer cleanup(t)

	u, err := s.CreateUser(ctx, &storage.CreateUserParams{Name: "Ann", Balance: 13.37})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, "Ann", u.Name)
	require.Equal(t, 13.37, u.Balance)

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, u.Name, got.Name)
	require.Equal(t, u.Balance, got.Balance)
}

func TestPg_GetUser_NotFound(t *testing.T) {
	defer cleanup(t)

	_, err := s.GetUser(ctx, "df870e39-6fcb-41eb-9461-0242ac11000b")
	require.Equal(t, storage.ErrNotFound, err)
}

func TestPg_UpdateUser(t *testing.T) {
	defer cleanup(t)

	u, err := s.CreateUser(ctx, &storage.CreateUserParams{Name: "Ann", Balance: 1})
	require.NoError(t, err)

	name := "Mary"
	got, err := s.UpdateUser(ctx, u.ID, &storage.UpdateUserParams{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Mary", got.Name)
	// untouched field keeps its value
	assert.Equal(t, 1.0, got.Balance)

	_, err = s.UpdateUser(ctx, "df870e39-6fcb-41eb-9461-0242ac11000b", &storage.UpdateUserParams{Name: &name})
	require.Equal(t, storage.ErrNotFound, err)
}

func TestPg_DeleteUser_Cascades(t *testing.T) {
	defer cleanup(t)
	seedMemberTypes(t)

	u, err := s.CreateUser(ctx, &storage.CreateUserParams{Name: "Ann"})
	require.NoError(t, err)
	a, err := s.CreateUser(ctx, &storage.CreateUserParams{Name: "Bob"})
	require.NoError(t, err)

	p, err := s.CreatePost(ctx, &storage.CreatePostParams{Title: "t", Content: "c", AuthorID: u.ID})
	require.NoError(t, err)
	pr, err := s.CreateProfile(ctx, &storage.CreateProfileParams{IsMale: false, YearOfBirth: 1990, UserID: u.ID, MemberTypeID: "BASIC"})
	require.NoError(t, err)
	require.NoError(t, s.Subscribe(ctx, u.ID, a.ID))

	require.NoError(t, s.DeleteUser(ctx, u.ID))

	_, err = s.GetUser(ctx, u.ID)
	require.Equal(t, storage.ErrNotFound, err)
	_, err = s.GetPost(ctx, p.ID)
	require.Equal(t, storage.ErrNotFound, err)
	_, err = s.GetProfile(ctx, pr.ID)
	require.Equal(t, storage.ErrNotFound, err)

	got, err := s.GetUser(ctx, a.ID)
	require.NoError(t, err)
	require.Empty(t, got.Subscribers)

	require.Equal(t, storage.ErrNotFound, s.DeleteUser(ctx, u.ID))
}

func TestPg_CreatePost_UnknownAuthor(t *testing.T) {
	defer cleanup(t)

	_, err := s.CreatePost(ctx, &storage.CreatePostParams{
		Title:    "t",
		Content:  "c",
		AuthorID: "df870e39-6fcb-41eb-9461-0242ac11000b",
	})
	require.Error(t, err)
}

func TestPg_UpdatePost(t *testing.T) {
	defer cleanup(t)

	u, err := s.CreateUser(ctx, &storage.CreateUserParams{Name: "Ann"})
	require.NoError(t, err)
	p, err := s.CreatePost(ctx, &storage.CreatePostParams{Title: "t", Content: "c", AuthorID: u.ID})
	require.NoError(t, err)

	title := "t2"
	got, err := s.UpdatePost(ctx, p.ID, &storage.UpdatePostParams{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "t2", got.Title)
	assert.Equal(t, "c", got.Content)
	assert.Equal(t, u.ID, got.AuthorID)
}

func TestPg_Profile(t *testing.T) {
	defer cleanup(t)
	seedMemberTypes(t)

	u, err := s.CreateUser(ctx, &storage.CreateUserParams{Name: "Ann"})
	require.NoError(t, err)

	p, err := s.CreateProfile(ctx, &storage.CreateProfileParams{IsMale: true, YearOfBirth: 1990, UserID: u.ID, MemberTypeID: "BASIC"})
	require.NoError(t, err)

	// a user has at most one profile
	_, err = s.CreateProfile(ctx, &storage.CreateProfileParams{IsMale: true, YearOfBirth: 1991, UserID: u.ID, MemberTypeID: "BASIC"})
	require.Equal(t, storage.ErrAlreadyExists, err)

	got, err := s.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, 1990, got.YearOfBirth)
	require.NotNil(t, got.MemberType)
	assert.Equal(t, "BASIC", got.MemberType.ID)
	assert.Equal(t, 2.3, got.MemberType.Discount)

	mt := "BUSINESS"
	updated, err := s.UpdateProfile(ctx, p.ID, &storage.UpdateProfileParams{MemberTypeID: &mt})
	require.NoError(t, err)
	assert.Equal(t, "BUSINESS", updated.MemberTypeID)
	assert.Equal(t, 1990, updated.YearOfBirth)
}

func TestPg_MemberTypes(t *testing.T) {
	defer cleanup(t)
	seedMemberTypes(t)

	mm, err := s.ListMemberTypes(ctx)
	require.NoError(t, err)
	require.Len(t, mm, 2)
	assert.Equal(t, "BASIC", mm[0].ID)
	assert.Equal(t, "BUSINESS", mm[1].ID)

	mt, err := s.GetMemberType(ctx, "BUSINESS")
	require.NoError(t, err)
	assert.Equal(t, 7.7, mt.Discount)
	assert.Equal(t, 100, mt.PostsLimitPerMonth)

	_, err = s.GetMemberType(ctx, "PREMIUM")
	require.Equal(t, storage.ErrNotFound, err)
}

func TestPg_Subscribe(t *testing.T) {
	defer cleanup(t)

	u, err := s.CreateUser(ctx, &storage.CreateUserParams{Name: "Ann"})
	require.NoError(t, err)
	a, err := s.CreateUser(ctx, &storage.CreateUserParams{Name: "Bob"})
	require.NoError(t, err)

	require.NoError(t, s.Subscribe(ctx, u.ID, a.ID))
	require.Equal(t, storage.ErrAlreadyExists, s.Subscribe(ctx, u.ID, a.ID))

	require.Equal(t, storage.ErrNotFound, s.Subscribe(ctx, u.ID, "df870e39-6fcb-41eb-9461-0242ac11000b"))

	require.NoError(t, s.Unsubscribe(ctx, u.ID, a.ID))
	require.Equal(t, storage.ErrNotFound, s.Unsubscribe(ctx, u.ID, a.ID))
}

func TestPg_GetUser_Relations(t *testing.T) {
	defer cleanup(t)
	seedMemberTypes(t)

	u, err := s.CreateUser(ctx, &storage.CreateUserParams{Name: "Ann"})
	require.NoError(t, err)
	a, err := s.CreateUser(ctx, &storage.CreateUserParams{Name: "Bob"})
	require.NoError(t, err)
	b, err := s.CreateUser(ctx, &storage.CreateUserParams{Name: "Carol"})
	require.NoError(t, err)

	_, err = s.CreateProfile(ctx, &storage.CreateProfileParams{IsMale: false, YearOfBirth: 1990, UserID: u.ID, MemberTypeID: "BASIC"})
	require.NoError(t, err)
	_, err = s.CreatePost(ctx, &storage.CreatePostParams{Title: "t", Content: "c", AuthorID: u.ID})
	require.NoError(t, err)

	require.NoError(t, s.Subscribe(ctx, u.ID, a.ID))
	require.NoError(t, s.Subscribe(ctx, u.ID, b.ID))
	require.NoError(t, s.Subscribe(ctx, b.ID, u.ID))

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)

	require.NotNil(t, got.Profile)
	assert.Equal(t, 1990, got.Profile.YearOfBirth)
	require.NotNil(t, got.Profile.MemberType)
	assert.Equal(t, "BASIC", got.Profile.MemberType.ID)

	require.Len(t, got.Posts, 1)
	assert.Equal(t, "t", got.Posts[0].Title)

	require.Len(t, got.SubscribedTo, 2)
	assert.Equal(t, a.ID, got.SubscribedTo[0].AuthorID)
	assert.Equal(t, "Bob", got.SubscribedTo[0].Author.Name)
	assert.Equal(t, b.ID, got.SubscribedTo[1].AuthorID)

	require.Len(t, got.Subscribers, 1)
	assert.Equal(t, b.ID, got.Subscribers[0].SubscriberID)
	assert.Equal(t, "Carol", got.Subscribers[0].Subscriber.Name)
}

func TestPg_ListUsers(t *testing.T) {
	defer cleanup(t)

	_, err := s.CreateUser(ctx, &storage.CreateUserParams{Name: "Bob"})
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, &storage.CreateUserParams{Name: "Ann"})
	require.NoError(t, err)

	uu, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, uu, 2)
	assert.Equal(t, "Ann", uu[0].Name)
	assert.Equal(t, "Bob", uu[1].Name)
}

func TestPg_ListPosts_Empty(t *testing.T) {
	defer cleanup(t)

	pp, err := s.ListPosts(ctx)
	require.NoError(t, err)
	require.Empty(t, pp)
}

func TestPg_Errors(t *testing.T) {
	defer cleanup(t)

	require.True(t, errors.Is(s.DeletePost(ctx, "df870e39-6fcb-41eb-9461-0242ac11000b"), storage.ErrNotFound))
	require.True(t, errors.Is(s.DeleteProfile(ctx, "df870e39-6fcb-41eb-9461-0242ac11000b"), storage.ErrNotFound))
}
