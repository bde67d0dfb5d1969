package models

import (
	"strings"
	"time"
)

// Pint is one shared drink check-in. ImageURL holds exactly two
// comma-joined URLs: the subject (back camera) photo first, the selfie
// second. Rows are insert-only; the workflow never mutates or deletes them.
type Pint struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	GroupID     uint      `gorm:"index" json:"group_id"`
	Description string    `json:"description"` // "<quantity>x <drink type>"
	Location    string    `json:"location"`
	ImageURL    string    `gorm:"not null" json:"image_url"`
	Points      int       `json:"points"`
	CreatedAt   time.Time `json:"created_at"`

	User  *Profile `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Group *Group   `gorm:"foreignKey:GroupID" json:"-"`
}

func (Pint) TableName() string {
	return "pints"
}

// PhotoURLs splits ImageURL into the subject photo and the selfie.
// Consumers treat index 0 as the primary photo.
func (p *Pint) PhotoURLs() (back, front string) {
	parts := strings.SplitN(p.ImageURL, ",", 2)
	back = parts[0]
	if len(parts) > 1 {
		front = parts[1]
	}
	return back, front
}
