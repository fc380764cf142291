package skater

import "time"

type Skater struct {
	ID        string
	Name      string
	Country   string
	Ranking   *int
	Price     int64
	UpdatedAt time.Time
}
