package agent

import (
	"time"
)

const (
	RoleAgent   = "agent"
	RoleManager = "manager"
)

// Agent is a back-office user of the admin dashboard.
type Agent struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"column:email;not null;uniqueIndex"`
	Name         string    `json:"name" gorm:"column:name"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Role         string    `json:"role" gorm:"column:role;default:agent"`
	IsActive     bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Agent) TableName() string {
	return "agents"
}
