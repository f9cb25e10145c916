package domain

import "time"

// AnnouncementAudience scopes an announcement to a resident group.
type AnnouncementAudience string

const (
	AudienceAll      AnnouncementAudience = "all"
	AudienceStudents AnnouncementAudience = "students"
	AudienceStaff    AnnouncementAudience = "staff"
)

// Announcement is a facility-wide notice posted by staff.
type Announcement struct {
	ID             string
	Title          string
	Body           string
	Category       string
	Priority       IssuePriority
	TargetAudience AnnouncementAudience
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
