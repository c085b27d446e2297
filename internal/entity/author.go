package entity

import "time"

type Author struct {
	ID          string
	Name        string
	Nationality string
	BirthDate   *time.Time
	CreatedAt   time.Time
}
