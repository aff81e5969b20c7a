package models

import (
	"gorm.io/gorm"
)

// MovieStatus represents where a movie sits in the accessibility pipeline.
type MovieStatus string

const (
	MoviePlanned    MovieStatus = "planned"
	MovieInProgress MovieStatus = "inProgress"
	MovieDelivered  MovieStatus = "delivered"
)

// Distributor represents a movie distributor the panel works with.
type Distributor struct {
	ID           string `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"unique;not null"`
	ContactEmail string `json:"contact_email" gorm:"column:contact_email"`
	gorm.Model
}

// TableName specifies the table name for Distributor Model
func (Distributor) TableName() string {
	return "distributors"
}

// Movie represents a movie under accessibility production.
type Movie struct {
	ID            string      `json:"id" gorm:"primaryKey"`
	Title         string      `json:"title" gorm:"not null"`
	Status        MovieStatus `json:"status" gorm:"not null;default:'planned'"`
	DistributorID string      `json:"distributor_id" gorm:"column:distributor_id;index"`
	ReleaseDate   string      `json:"release_date" gorm:"column:release_date"`
	RuntimeMin    int         `json:"runtime_min" gorm:"column:runtime_min"`
	Notes         string      `json:"notes"`
	gorm.Model
}

// TableName specifies the table name for Movie Model
func (Movie) TableName() string {
	return "movies"
}
