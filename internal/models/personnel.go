package models

import (
	"gorm.io/gorm"
)

// PersonnelRole classifies the people the panel manages.
type PersonnelRole string

const (
	RoleScriptwriter PersonnelRole = "scriptwriter"
	RoleStaff        PersonnelRole = "staff"
	RoleInterpreter  PersonnelRole = "interpreter"
)

// Valid reports whether r is a known role.
func (r PersonnelRole) Valid() bool {
	return r == RoleScriptwriter || r == RoleStaff || r == RoleInterpreter
}

// Personnel represents a scriptwriter, staff member or sign-language
// interpreter available for production assignments.
type Personnel struct {
	ID     string        `json:"id" gorm:"primaryKey"`
	Name   string        `json:"name" gorm:"not null"`
	Role   PersonnelRole `json:"role" gorm:"not null;index"`
	Email  string        `json:"email"`
	Active bool          `json:"active" gorm:"default:true"`
	gorm.Model
}

// TableName specifies the table name for Personnel Model
func (Personnel) TableName() string {
	return "personnel"
}

// AllowedIP is one entry of the panel's IP allow-list.
type AllowedIP struct {
	ID      uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	CIDR    string `json:"cidr" gorm:"unique;not null"`
	Comment string `json:"comment"`
	gorm.Model
}

// TableName specifies the table name for AllowedIP Model
func (AllowedIP) TableName() string {
	return "allowed_ips"
}
