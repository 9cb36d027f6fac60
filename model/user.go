package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the single persisted entity: one row per registered visitor.
// The password hash is excluded from every JSON response.
type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"not null;size:100" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null;size:150" json:"email"`
	Phone        string    `gorm:"uniqueIndex;not null;size:15" json:"phone"`
	Password     string    `gorm:"not null;size:255" json:"-"`
	ProfileImage string    `gorm:"size:255" json:"profile_image"`
	Address      string    `gorm:"size:150" json:"address"`
	State        string    `gorm:"not null;size:100" json:"state"`
	City         string    `gorm:"not null;size:100" json:"city"`
	Country      string    `gorm:"not null;size:100" json:"country"`
	Pincode      string    `gorm:"not null;size:10" json:"pincode"`
	Role         string    `gorm:"not null;size:10;default:user" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
