package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User maps to the app_user table. This is a directory of staff identities
// used for chart attribution, not a credential store: authentication happens
// at the token layer.
type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FullNameOrUsername returns "First Last" when either name part is set,
// falling back to the username.
func (u *User) FullNameOrUsername() string {
	full := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if full != "" {
		return full
	}
	return u.Username
}
