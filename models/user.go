package models

import "time"

type UserRole string

const (
	RolePlayer UserRole = "player"
	RoleAdmin  UserRole = "admin"
)

type AuthProvider string

const (
	AuthProviderGoogle AuthProvider = "google"
	AuthProviderEmail  AuthProvider = "email"
)

type NotificationPreferences struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
}

type UserPreferences struct {
	Notifications          NotificationPreferences `json:"notifications"`
	PreferredPaymentMethod PaymentMethod           `json:"preferred_payment_method"`
}

func DefaultUserPreferences() UserPreferences {
	return UserPreferences{
		Notifications:          NotificationPreferences{Email: true, Push: true},
		PreferredPaymentMethod: PaymentMethodUPI,
	}
}

type UserStats struct {
	MatchesPlayed    int     `json:"matches_played"`
	MatchesOrganized int     `json:"matches_organized"`
	TotalPaid        int64   `json:"total_paid"`
	AverageRating    float64 `json:"average_rating"`
}

type User struct {
	ID             string          `json:"id"`
	FirebaseUID    string          `json:"-"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          *string         `json:"phone,omitempty"`
	ProfilePicture *string         `json:"profile_picture,omitempty"`
	Role           UserRole        `json:"role"`
	AuthProvider   AuthProvider    `json:"auth_provider"`
	IsActive       bool            `json:"is_active"`
	Preferences    UserPreferences `json:"preferences"`
	Stats          UserStats       `json:"stats"`
	LastLogin      *time.Time      `json:"last_login,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// PublicProfile: данные, доступные другим пользователям.
type PublicProfile struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ProfilePicture *string   `json:"profile_picture,omitempty"`
	Stats          UserStats `json:"stats"`
	MemberSince    time.Time `json:"member_since"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:             u.ID,
		Name:           u.Name,
		ProfilePicture: u.ProfilePicture,
		Stats:          u.Stats,
		MemberSince:    u.CreatedAt,
	}
}
