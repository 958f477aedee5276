package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName  string    `gorm:"type:varchar(255);not null"`
	Role      string    `gorm:"type:varchar(20);not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type SpecialistProfile struct {
	UserId    uuid.UUID `gorm:"type:uuid;primaryKey"`
	User      *User     `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE;"`
	Expertise string    `gorm:"type:varchar(255)"`
	Bio       string    `gorm:"type:text"`
}

func (SpecialistProfile) TableName() string {
	return "specialist_profiles"
}

type RequesterProfile struct {
	UserId   uuid.UUID `gorm:"type:uuid;primaryKey"`
	User     *User     `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE;"`
	FarmName string    `gorm:"type:varchar(255)"`
	Region   string    `gorm:"type:varchar(255)"`
}

func (RequesterProfile) TableName() string {
	return "requester_profiles"
}
