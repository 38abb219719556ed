package model

import "time"

// EmailTemplate holds the single invitation template edited by organizers.
// Body is HTML with {name} and {passId} placeholders substituted at send time.
type EmailTemplate struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Subject   string    `gorm:"type:varchar(255);not null" json:"subject"`
	ImageURL  string    `gorm:"type:text" json:"image_url"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (EmailTemplate) TableName() string { return "email_templates" }
