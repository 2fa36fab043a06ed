package model

import "time"

type UserRole string

const (
	Student    UserRole = "student"
	Instructor UserRole = "instructor"
	Admin      UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:20;default:'student'" json:"role"`
	Bio      string   `gorm:"type:text" json:"bio"`
	Avatar   string   `gorm:"size:255" json:"avatar"`
	Country  string   `gorm:"size:50" json:"country"`
	Disabled bool     `gorm:"default:false" json:"disabled"`

	// Instructor aggregates. Overwritten as a whole by the rating
	// aggregator on every review moderation change; never patched
	// incrementally.
	Rating       float64 `gorm:"default:0" json:"rating"`
	TotalReviews int     `gorm:"default:0" json:"totalReviews"`

	// Set by the auth service on every successful login.
	LastLogin time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
