package dto

import (
	"time"

	"github.com/spec-kit/life-bridge/internal/domain"
	"github.com/spec-kit/life-bridge/internal/service"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Password   string          `json:"password"`
	Age        *int            `json:"age"`
	BloodGroup string          `json:"bloodGroup"`
	Role       string          `json:"role"`
	Location   LocationPayload `json:"location"`
}

// LocationPayload is a free-text address with optional coordinates.
type LocationPayload struct {
	Address string   `json:"address,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// ToInput converts the payload to a service input.
func (r UserRegisterRequest) ToInput() service.RegisterInput {
	return service.RegisterInput{
		Name:       r.Name,
		Email:      r.Email,
		Password:   r.Password,
		Age:        r.Age,
		BloodGroup: r.BloodGroup,
		Role:       r.Role,
		Address:    r.Location.Address,
		Lat:        r.Location.Lat,
		Lng:        r.Location.Lng,
	}
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserResponse is a user without credentials.
type UserResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Age        *int            `json:"age,omitempty"`
	BloodGroup string          `json:"bloodGroup,omitempty"`
	Role       string          `json:"role"`
	Location   LocationPayload `json:"location"`
	IsAdmin    bool            `json:"isAdmin"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Age:        u.Age,
		BloodGroup: string(u.BloodGroup),
		Role:       string(u.Role),
		Location:   LocationPayload{Address: u.Location.Address, Lat: u.Location.Lat, Lng: u.Location.Lng},
		IsAdmin:    u.IsAdmin,
		CreatedAt:  u.CreatedAt,
	}
}

// NewUserList maps a slice of users.
func NewUserList(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

// UserRef is a populated user reference.
type UserRef struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	BloodGroup string `json:"bloodGroup,omitempty"`
	Orphaned   bool   `json:"orphaned,omitempty"`
}

// NewUserRef maps a resolved reference.
func NewUserRef(ref service.UserRef) UserRef {
	if ref.Orphaned() {
		return UserRef{ID: ref.ID, Orphaned: true}
	}
	return UserRef{
		ID:         ref.ID,
		Name:       ref.User.Name,
		Email:      ref.User.Email,
		BloodGroup: string(ref.User.BloodGroup),
	}
}

// UpdateUserRequest toggles the admin flag.
type UpdateUserRequest struct {
	IsAdmin *bool `json:"isAdmin"`
}
