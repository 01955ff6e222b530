// Package model defines the data structures used throughout the application.
package model

import "time"

// RoleAuthor is the only role the application issues today. It is still
// carried in the session claim so that adding moderator/admin roles later
// doesn't require re-issuing tokens with a new shape.
const RoleAuthor = "author"

// User represents a registered account.
//
// A user is created in a pending state by the signup flow: the row exists with
// OTP/OTPExpiresAt set, and becomes usable only once the OTP is verified
// (which clears both fields). A zero OTP means the account is verified.
//
// WHY OTP string AND OTPExpiresAt time.Time (not pointers)?
// The columns are NULL in the database outside the signup window, but in Go we
// prefer zero values over nullable pointers — "" and the zero time mean
// "no pending verification". The sqlite repository translates to/from NULL.
//
// PasswordHash is the bcrypt hash. It is never serialized: the field has no
// json tag exposure (json:"-") so it cannot leak through any response that
// embeds a User.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Name         string    `json:"name"` // display name, "FirstName LastName"
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DateOfBirth  string    `json:"dateOfBirth"` // "YYYY-MM-DD", stored as given
	MobileNumber string    `json:"mobileNumber"`
	AvatarURL    string    `json:"profilePicture"` // media host URL, may be empty
	AvatarID     string    `json:"-"`              // media host public ID for deletion
	Role         string    `json:"role"`
	OTP          string    `json:"-"`
	OTPExpiresAt time.Time `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Pending reports whether the account still has an unverified signup OTP.
func (u *User) Pending() bool {
	return u.OTP != ""
}

// AuthorStat is the sidebar "top authors" projection: an author plus the
// number of posts they have published. Computed live by aggregation.
type AuthorStat struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AvatarURL  string `json:"profilePicture"`
	TotalPosts int    `json:"totalPosts"`
}
