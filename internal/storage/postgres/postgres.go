// Package postgres is implementation of storage interface.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/orpheus-net/orpheus/internal/entities"
	"github.com/orpheus-net/orpheus/internal/storage"
)

const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

type pg struct {
	ext sqlx.ExtContext
}

type userDTO struct {
	ID      string  `db:"id"`
	Name    string  `db:"name"`
	Balance float64 `db:"balance"`
}

type postDTO struct {
	ID       string `db:"id"`
	Title    string `db:"title"`
	Content  string `db:"content"`
	AuthorID string `db:"author_id"`
}

type profileDTO struct {
	ID           string `db:"id"`
	IsMale       bool   `db:"is_male"`
	YearOfBirth  int    `db:"year_of_birth"`
	UserID       string `db:"user_id"`
	MemberTypeID string `db:"member_type_id"`
}

type memberTypeDTO struct {
	ID                 string  `db:"id"`
	Discount           float64 `db:"discount"`
	PostsLimitPerMonth int     `db:"posts_limit_per_month"`
}

// subscriptionDTO is a link row joined with the user on its far side.
type subscriptionDTO struct {
	SubscriberID string `db:"subscriber_id"`
	AuthorID     string `db:"author_id"`

	userDTO
}

// New creates new instance of pg.
func New(db *sql.DB) storage.Storage {
	return pg{
		ext: sqlx.NewDb(db, "postgres"),
	}
}

func (s pg) Ping(ctx context.Context) error {
	if _, err := s.ext.ExecContext(ctx, `SELECT 1`); err != nil {
		return fmt.Errorf("failed to ping: %w", err)
	}

	return nil
}

func (s pg) ListUsers(ctx context.Context) ([]*entities.User, error) {
	var uu []*userDTO

	if err := sqlx.SelectContext(ctx, s.ext, &uu, `SELECT id, name, balance FROM "user" ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make([]*entities.User, len(uu))
	for i, v := range uu {
		out[i] = toUser(v)
	}

	if err := s.loadUserRelations(ctx, out); err != nil {
		return nil, err
	}

	return out, nil
}

func (s pg) GetUser(ctx context.Context, id string) (*entities.User, error) {
	var u userDTO

	if err := sqlx.GetContext(ctx, s.ext, &u, `SELECT id, name, balance FROM "user" WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := toUser(&u)

	if err := s.loadUserRelations(ctx, []*entities.User{out}); err != nil {
		return nil, err
	}

	return out, nil
}

func (s pg) CreateUser(ctx context.Context, p *storage.CreateUserParams) (*entities.User, error) {
	u := userDTO{
		ID:      uuid.New().String(),
		Name:    p.Name,
		Balance: p.Balance,
	}

	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`INSERT INTO "user"(id, name, balance) VALUES(:id, :name, :balance)`, u,
	); err != nil {
		return nil, fmt.Errorf("failed to exec: %w", err)
	}

	return toUser(&u), nil
}

func (s pg) UpdateUser(ctx context.Context, id string, p *storage.UpdateUserParams) (*entities.User, error) {
	var u userDTO

	if err := sqlx.GetContext(ctx, s.ext, &u, `
			UPDATE "user" SET
				name = COALESCE($2, name),
				balance = COALESCE($3, balance)
			WHERE id = $1
			RETURNING id, name, balance
		`, id, p.Name, p.Balance,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("failed to exec: %w", err)
	}

	return toUser(&u), nil
}

func (s pg) DeleteUser(ctx context.Context, id string) error {
	return s.deleteByID(ctx, `DELETE FROM "user" WHERE id = $1`, id)
}

func (s pg) ListPosts(ctx context.Context) ([]*entities.Post, error) {
	var pp []*postDTO

	if err := sqlx.SelectContext(ctx, s.ext, &pp, `SELECT id, title, content, author_id FROM post ORDER BY title, id`); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make([]*entities.Post, len(pp))
	for i, v := range pp {
		out[i] = toPost(v)
	}

	return out, nil
}

func (s pg) GetPost(ctx context.Context, id string) (*entities.Post, error) {
	var p postDTO

	if err := sqlx.GetContext(ctx, s.ext, &p, `SELECT id, title, content, author_id FROM post WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return toPost(&p), nil
}

func (s pg) CreatePost(ctx context.Context, p *storage.CreatePostParams) (*entities.Post, error) {
	post := postDTO{
		ID:       uuid.New().String(),
		Title:    p.Title,
		Content:  p.Content,
		AuthorID: p.AuthorID,
	}

	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`INSERT INTO post(id, title, content, author_id) VALUES(:id, :title, :content, :author_id)`, post,
	); err != nil {
		return nil, fmt.Errorf("failed to exec: %w", err)
	}

	return toPost(&post), nil
}

func (s pg) UpdatePost(ctx context.Context, id string, p *storage.UpdatePostParams) (*entities.Post, error) {
	var post postDTO

	if err := sqlx.GetContext(ctx, s.ext, &post, `
			UPDATE post SET
				title = COALESCE($2, title),
				content = COALESCE($3, content)
			WHERE id = $1
			RETURNING id, title, content, author_id
		`, id, p.Title, p.Content,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("failed to exec: %w", err)
	}

	return toPost(&post), nil
}

func (s pg) DeletePost(ctx context.Context, id string) error {
	return s.deleteByID(ctx, `DELETE FROM post WHERE id = $1`, id)
}

func (s pg) ListProfiles(ctx context.Context) ([]*entities.Profile, error) {
	var pp []*profileDTO

	if err := sqlx.SelectContext(ctx, s.ext, &pp,
		`SELECT id, is_male, year_of_birth, user_id, member_type_id FROM profile ORDER BY id`,
	); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make([]*entities.Profile, len(pp))
	for i, v := range pp {
		out[i] = toProfile(v)
	}

	return out, nil
}

func (s pg) GetProfile(ctx context.Context, id string) (*entities.Profile, error) {
	var p profileDTO

	if err := sqlx.GetContext(ctx, s.ext, &p,
		`SELECT id, is_male, year_of_birth, user_id, member_type_id FROM profile WHERE id = $1`, id,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := toProfile(&p)

	mt, err := s.GetMemberType(ctx, p.MemberTypeID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	out.MemberType = mt

	return out, nil
}

func (s pg) CreateProfile(ctx context.Context, p *storage.CreateProfileParams) (*entities.Profile, error) {
	profile := profileDTO{
		ID:           uuid.New().String(),
		IsMale:       p.IsMale,
		YearOfBirth:  p.YearOfBirth,
		UserID:       p.UserID,
		MemberTypeID: p.MemberTypeID,
	}

	if _, err := sqlx.NamedExecContext(ctx, s.ext, `
			INSERT INTO profile(id, is_male, year_of_birth, user_id, member_type_id)
			VALUES(:id, :is_male, :year_of_birth, :user_id, :member_type_id)
		`, profile,
	); err != nil {
		if isPqError(err, uniqueViolation) {
			return nil, storage.ErrAlreadyExists
		}

		return nil, fmt.Errorf("failed to exec: %w", err)
	}

	return toProfile(&profile), nil
}

func (s pg) UpdateProfile(ctx context.Context, id string, p *storage.UpdateProfileParams) (*entities.Profile, error) {
	var profile profileDTO

	if err := sqlx.GetContext(ctx, s.ext, &profile, `
			UPDATE profile SET
				is_male = COALESCE($2, is_male),
				year_of_birth = COALESCE($3, year_of_birth),
				user_id = COALESCE($4, user_id),
				member_type_id = COALESCE($5, member_type_id)
			WHERE id = $1
			RETURNING id, is_male, year_of_birth, user_id, member_type_id
		`, id, p.IsMale, p.YearOfBirth, p.UserID, p.MemberTypeID,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("failed to exec: %w", err)
	}

	return toProfile(&profile), nil
}

func (s pg) DeleteProfile(ctx context.Context, id string) error {
	return s.deleteByID(ctx, `DELETE FROM profile WHERE id = $1`, id)
}

func (s pg) ListMemberTypes(ctx context.Context) ([]*entities.MemberType, error) {
	var mm []*memberTypeDTO

	if err := sqlx.SelectContext(ctx, s.ext, &mm,
		`SELECT id, discount, posts_limit_per_month FROM member_type ORDER BY id`,
	); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make([]*entities.MemberType, len(mm))
	for i, v := range mm {
		out[i] = toMemberType(v)
	}

	return out, nil
}

func (s pg) GetMemberType(ctx context.Context, id string) (*entities.MemberType, error) {
	var m memberTypeDTO

	if err := sqlx.GetContext(ctx, s.ext, &m,
		`SELECT id, discount, posts_limit_per_month FROM member_type WHERE id = $1`, id,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return toMemberType(&m), nil
}

func (s pg) Subscribe(ctx context.Context, subscriberID, authorID string) error {
	if _, err := s.ext.ExecContext(ctx,
		`INSERT INTO subscription(subscriber_id, author_id) VALUES($1, $2)`,
		subscriberID, authorID,
	); err != nil {
		if isPqError(err, uniqueViolation) {
			return storage.ErrAlreadyExists
		}

		if isPqError(err, foreignKeyViolation) {
			return storage.ErrNotFound
		}

		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s pg) Unsubscribe(ctx context.Context, subscriberID, authorID string) error {
	return s.deleteByID(ctx, `DELETE FROM subscription WHERE subscriber_id = $1 AND author_id = $2`, subscriberID, authorID)
}

// loadUserRelations fills profiles (with member types), posts and both
// subscription directions for the given users with batch queries.
func (s pg) loadUserRelations(ctx context.Context, users []*entities.User) error {
	if len(users) == 0 {
		return nil
	}

	byID := make(map[string]*entities.User, len(users))
	ids := make([]string, len(users))
	for i, u := range users {
		byID[u.ID] = u
		ids[i] = u.ID
	}

	if err := s.loadProfiles(ctx, ids, byID); err != nil {
		return err
	}

	if err := s.loadPosts(ctx, ids, byID); err != nil {
		return err
	}

	return s.loadSubscriptions(ctx, ids, byID)
}

func (s pg) loadProfiles(ctx context.Context, ids []string, users map[string]*entities.User) error {
	var pp []*profileDTO

	if err := s.selectIn(ctx, &pp,
		`SELECT id, is_male, year_of_birth, user_id, member_type_id FROM profile WHERE user_id IN (?)`, ids,
	); err != nil {
		return err
	}

	mtIDs := make([]string, 0, len(pp))
	profiles := make([]*entities.Profile, len(pp))

	for i, v := range pp {
		profiles[i] = toProfile(v)
		users[v.UserID].Profile = profiles[i]
		mtIDs = append(mtIDs, v.MemberTypeID)
	}

	if len(mtIDs) == 0 {
		return nil
	}

	var mm []*memberTypeDTO
	if err := s.selectIn(ctx, &mm,
		`SELECT id, discount, posts_limit_per_month FROM member_type WHERE id IN (?)`, stringsUnique(mtIDs),
	); err != nil {
		return err
	}

	types := make(map[string]*entities.MemberType, len(mm))
	for _, v := range mm {
		types[v.ID] = toMemberType(v)
	}

	for _, p := range profiles {
		p.MemberType = types[p.MemberTypeID]
	}

	return nil
}

func (s pg) loadPosts(ctx context.Context, ids []string, users map[string]*entities.User) error {
	var pp []*postDTO

	if err := s.selectIn(ctx, &pp,
		`SELECT id, title, content, author_id FROM post WHERE author_id IN (?) ORDER BY title, id`, ids,
	); err != nil {
		return err
	}

	for _, v := range pp {
		u := users[v.AuthorID]
		u.Posts = append(u.Posts, toPost(v))
	}

	return nil
}

func (s pg) loadSubscriptions(ctx context.Context, ids []string, users map[string]*entities.User) error {
	var out []*subscriptionDTO

	if err := s.selectIn(ctx, &out, `
			SELECT s.subscriber_id, s.author_id, u.id, u.name, u.balance
			FROM subscription s
			JOIN "user" u ON u.id = s.author_id
			WHERE s.subscriber_id IN (?)
			ORDER BY u.name, u.id
		`, ids,
	); err != nil {
		return err
	}

	for _, v := range out {
		u := users[v.SubscriberID]
		u.SubscribedTo = append(u.SubscribedTo, &entities.Subscription{
			SubscriberID: v.SubscriberID,
			AuthorID:     v.AuthorID,
			Author:       toUser(&v.userDTO),
		})
	}

	var in []*subscriptionDTO

	if err := s.selectIn(ctx, &in, `
			SELECT s.subscriber_id, s.author_id, u.id, u.name, u.balance
			FROM subscription s
			JOIN "user" u ON u.id = s.subscriber_id
			WHERE s.author_id IN (?)
			ORDER BY u.name, u.id
		`, ids,
	); err != nil {
		return err
	}

	for _, v := range in {
		u := users[v.AuthorID]
		u.Subscribers = append(u.Subscribers, &entities.Subscription{
			SubscriberID: v.SubscriberID,
			AuthorID:     v.AuthorID,
			Subscriber:   toUser(&v.userDTO),
		})
	}

	return nil
}

func (s pg) selectIn(ctx context.Context, dest interface{}, query string, args []string) error {
	q, a, err := sqlx.In(query, args)
	if err != nil {
		return fmt.Errorf("failed to construct IN clause: %w", err)
	}

	if err := sqlx.SelectContext(ctx, s.ext, dest, s.ext.Rebind(q), a...); err != nil {
		return fmt.Errorf("failed to query: %w", err)
	}

	return nil
}

func (s pg) deleteByID(ctx context.Context, query string, args ...interface{}) error {
	res, err := s.ext.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	if c, _ := res.RowsAffected(); c == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func isPqError(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == code
	}

	return false
}

func toUser(u *userDTO) *entities.User {
	return &entities.User{
		ID:      u.ID,
		Name:    u.Name,
		Balance: u.Balance,
	}
}

func toPost(p *postDTO) *entities.Post {
	return &entities.Post{
		ID:       p.ID,
		Title:    p.Title,
		Content:  p.Content,
		AuthorID: p.AuthorID,
	}
}

func toProfile(p *profileDTO) *entities.Profile {
	return &entities.Profile{
		ID:           p.ID,
		IsMale:       p.IsMale,
		YearOfBirth:  p.YearOfBirth,
		UserID:       p.UserID,
		MemberTypeID: p.MemberTypeID,
	}
}

func toMemberType(m *memberTypeDTO) *entities.MemberType {
	return &entities.MemberType{
		ID:                 m.ID,
		Discount:           m.Discount,
		PostsLimitPerMonth: m.PostsLimitPerMonth,
	}
}

func stringsUnique(s []string) []string {
	m := make(map[string]struct{}, len(s))
	out := make([]string, 0, len(s))

	for _, v := range s {
		if _, ok := m[v]; !ok {
			m[v] = struct{}{}
			out = append(out, v)
		}
	}

	return out
}
