package model

import (
	"time"
)

// DefaultCategory is the sentinel award category for guests that are not
// award recipients. It always exists in the category set and cannot be
// removed from it.
const DefaultCategory = "Not an Award Recipient"

// Guest is one invited or registered person. The ID doubles as the scannable
// pass token; it is allocated by whoever creates the record (RSVP form,
// manual entry, bulk import) and never changes afterwards.
//
// CheckedIn is a one-way latch: no operation transitions it back to false,
// and CheckInTime is immutable once set.
type Guest struct {
	ID            string `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name          string `gorm:"type:varchar(255);not null" json:"name"`
	Email         string `gorm:"type:varchar(255);not null" json:"email"`
	CountryCode   string `gorm:"type:varchar(8)" json:"country_code"`
	Mobile        string `gorm:"type:varchar(32)" json:"mobile"`
	Organization  string `gorm:"type:varchar(255)" json:"organization"`
	Designation   string `gorm:"type:varchar(255)" json:"designation"`
	AwardCategory string `gorm:"type:varchar(255);not null;default:'Not an Award Recipient'" json:"award_category"`

	RSVPDate        time.Time  `gorm:"not null" json:"rsvp_date"`
	RSVPConfirmed   bool       `gorm:"not null;default:false" json:"rsvp_confirmed"`
	RSVPConfirmedAt *time.Time `json:"rsvp_confirmed_at,omitempty"`

	InvitationSent   bool       `gorm:"not null;default:false" json:"invitation_sent"`
	InvitationSentAt *time.Time `json:"invitation_sent_at,omitempty"`

	CheckedIn   bool       `gorm:"not null;default:false" json:"checked_in"`
	CheckInTime *time.Time `json:"check_in_time,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Guest) TableName() string { return "guests" }
