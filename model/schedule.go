package model

import "time"

type ScheduleType string

const (
	ScheduleTypeMeeting    ScheduleType = "meeting"
	ScheduleTypeAssignment ScheduleType = "assignment"
	ScheduleTypeDeadline   ScheduleType = "deadline"
	ScheduleTypeEvent      ScheduleType = "event"
)

type ScheduleStatus string

const (
	ScheduleStatusPending    ScheduleStatus = "pending"
	ScheduleStatusInProgress ScheduleStatus = "in-progress"
	ScheduleStatusCompleted  ScheduleStatus = "completed"
	ScheduleStatusCancelled  ScheduleStatus = "cancelled"
)

/*

ScheduleItem is a calendar entry

CreatorID:
Creator: user who created the item, only one allowed to update/delete it
Assignees: users the item is assigned to, "many-to-many" relation; they
           can read the item
BlogID:
Blog: optionally linked blog

Date is the calendar day; StartTime/EndTime are optional "HH:MM" strings.
No recurrence and no conflict detection.

*/
type ScheduleItem struct {
	Id          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Title       string
	Description string
	Type        ScheduleType
	Date        time.Time
	StartTime   string
	EndTime     string
	CreatorID   string
	Creator     User
	BlogID      *string
	Blog        *Blog
	Status      ScheduleStatus `gorm:"default:pending"`
	Location    string
	Assignees   []*User `json:"assignees" gorm:"many2many:schedule_assignees;"`
}

// ScheduleAssignee is the join row between ScheduleItem and User.
type ScheduleAssignee struct {
	ScheduleItemID string `gorm:"primaryKey"`
	UserID         string `gorm:"primaryKey"`
	CreatedAt      time.Time
}
