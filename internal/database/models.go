package database

import "time"

// User is an API account. Console credentials are configured separately.
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null;size:64" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"not null;default:admin" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// AuditRecord is written for every mutation sent to the consoles.
type AuditRecord struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Username       string    `gorm:"index;size:64" json:"username"`
	Resource       string    `gorm:"index;not null" json:"resource"`
	Action         string    `gorm:"not null" json:"action"`
	Target         string    `json:"target"`
	Outcome        string    `gorm:"not null" json:"outcome"`
	Detail         string    `json:"detail"`
	ReplicasTotal  int       `json:"replicas_total"`
	ReplicasFailed int       `json:"replicas_failed"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// ProbeResult is the outcome of one scheduled reachability check.
type ProbeResult struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Total     int       `json:"total"`
	Reachable int       `json:"reachable"`
	Error     string    `json:"error,omitempty"`
	Duration  string    `json:"duration"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
