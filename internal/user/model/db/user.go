package db

import (
	"time"

	"github.com/mir2x/herpill-dashboard/internal/user/model/api"
	"github.com/mir2x/herpill-dashboard/internal/utils"
)

type User struct {
	ID        string    `db:"id"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Avatar    string    `db:"avatar"`
	CreatedAt time.Time `db:"created_at"`
}

func (u *User) ToAPI() api.User {
	return api.User{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Phone:        u.Phone,
		Avatar:       u.Avatar,
		RegisteredAt: utils.FormatDate(u.CreatedAt),
	}
}

// UserSummary is the projection of a user embedded in request listings.
// Only ID is guaranteed to be set.
type UserSummary struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Avatar    string
}

func (u *UserSummary) ToAPI() api.UserSummary {
	return api.UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Avatar:    u.Avatar,
	}
}
