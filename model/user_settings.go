package model

import "time"

/*

UserSettings is a one-to-one extension of User holding the owner's privacy
and interaction toggles. A row is created together with the user.

IsPrivate: profile visible only to the owner and their followers
AllowLikes / AllowComments: interaction gates consulted at the moment of
    the action on any of the owner's blogs
ShowFollowerActivity: when false, like/follow actions targeting the owner
    do not produce notifications

All default true except IsPrivate.

*/
type UserSettings struct {
	UserID               string `gorm:"primaryKey"`
	UpdatedAt            time.Time
	IsPrivate            bool `gorm:"default:false"`
	AllowLikes           bool `gorm:"default:true"`
	AllowComments        bool `gorm:"default:true"`
	ShowFollowerActivity bool `gorm:"default:true"`
}
