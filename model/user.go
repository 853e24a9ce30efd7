package model

import "time"

type UserRole string

const (
	UserRoleUser       UserRole = "user"
	UserRoleAdmin      UserRole = "admin"
	UserRoleSuperadmin UserRole = "superadmin"
)

type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

/*

User is a local record for an identity-provider account

Id: primary key
FirebaseUID: the identity provider's uid, unique, used to look the user up
             on every verified request
Name, Email, AvatarUrl: owned by the identity provider, overwritten from
             token claims on every request
ProfileImageUrl, CoverImageUrl, Bio: owned by the user, editable in-app

Role: user / admin / superadmin. The very first user created process-wide
      is granted admin.
Status: active / blocked. Blocked users fail authentication.

Followers: users following this user, "many-to-many" relation
Following: users this user follows, "many-to-many" relation

*/
type User struct {
	Id              string `gorm:"primaryKey"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	FirebaseUID     string `gorm:"uniqueIndex"`
	Name            string
	Email           string `gorm:"uniqueIndex"`
	AvatarUrl       string
	ProfileImageUrl string
	CoverImageUrl   string
	Bio             string
	Role            UserRole   `gorm:"default:user"`
	Status          UserStatus `gorm:"default:active"`
	Followers       []*User    `json:"followers" gorm:"many2many:user_follows;joinForeignKey:FolloweeID;joinReferences:FollowerID"`
	Following       []*User    `json:"following" gorm:"many2many:user_follows;joinForeignKey:FollowerID;joinReferences:FolloweeID"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin || u.Role == UserRoleSuperadmin
}
