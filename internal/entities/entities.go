// Package entities contains main entities of service.
package entities

// User ...
type User struct {
	ID      string
	Name    string
	Balance float64

	// Relations, filled only when the storage was asked to include them.
	Profile      *Profile
	Posts        []*Post
	SubscribedTo []*Subscription // outgoing links, Author is set
	Subscribers  []*Subscription // incoming links, Subscriber is set
}

// Post ...
type Post struct {
	ID       string
	Title    string
	Content  string
	AuthorID string

	Author *User
}

// Profile ...
type Profile struct {
	ID           string
	IsMale       bool
	YearOfBirth  int
	UserID       string
	MemberTypeID string

	User       *User
	MemberType *MemberType
}

// MemberType is static reference data describing a member tier.
type MemberType struct {
	ID                 string
	Discount           float64
	PostsLimitPerMonth int
}

// Subscription is a link record meaning "subscriber follows author".
// It owns neither side, both users stay independently constructible.
type Subscription struct {
	SubscriberID string
	AuthorID     string

	Subscriber *User
	Author     *User
}

// FollowedUsers flattens outgoing subscription links into the followed users,
// preserving the order the links were loaded in. An absent set of links
// produces an empty list.
func FollowedUsers(links []*Subscription) []*User {
	out := make([]*User, 0, len(links))
	for _, l := range links {
		if l.Author != nil {
			out = append(out, l.Author)
		}
	}

	return out
}

// FollowerUsers flattens incoming subscription links into the subscribing users.
func FollowerUsers(links []*Subscription) []*User {
	out := make([]*User, 0, len(links))
	for _, l := range links {
		if l.Subscriber != nil {
			out = append(out, l.Subscriber)
		}
	}

	return out
}
