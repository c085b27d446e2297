package entity

import "time"

type User struct {
	ID          string
	Username    string
	Email       string
	Password    string
	IsSuperuser bool
	CreatedAt   time.Time
}
