// Package models defines client-side data models used by the authkeeper CLI.
package models

// User is a row of the local Users table. The password is stored verbatim;
// the app compares credentials in clear text against stored values.
type User struct {
	ID       int64
	Name     string
	Email    string
	Password string
}

// AuthUser is the public view of a user that leaves the credential store.
// It is what gets persisted under the user-data key and shown on screen.
type AuthUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public strips the password from a stored record.
func (u *User) Public() AuthUser {
	return AuthUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// ProfilePatch carries optional profile fields for a partial update.
// Nil fields are left unchanged.
type ProfilePatch struct {
	Name  *string
	Email *string
}
