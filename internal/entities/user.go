// Package entities contains core business entities.
package entities

// User is a domain representation of a reviewer or submitter.
type User struct {
	ID       string
	Name     string
	FullName string
	Email    string
	IsActive bool
}

// DisplayName prefers the full name when set.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Name
}

// AsPerson returns the git identity of the user.
func (u User) AsPerson() PersonIdent {
	return PersonIdent{Name: u.Name, Email: u.Email}
}

// PersonIdent is a git author/tagger identity.
type PersonIdent struct {
	Name  string
	Email string
}

// String renders the identity as "Name <email>".
func (p PersonIdent) String() string {
	return p.Name + " <" + p.Email + ">"
}
