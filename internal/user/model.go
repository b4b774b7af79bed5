package user

import "time"

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// Empty reports whether every sub-field is blank. An all-blank address is
// stored as NULL, never as an empty object.
func (a *Address) Empty() bool {
	if a == nil {
		return true
	}
	return a.Street == "" && a.City == "" && a.State == "" && a.Country == "" && a.PostalCode == ""
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Address      *Address  `json:"address,omitempty"`
	Verified     bool      `json:"verified"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the outward shape of a user (no credentials).
// swagger:model Profile
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   *Address  `json:"address,omitempty"`
	Verified  bool      `json:"verified"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		Verified:  u.Verified,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
