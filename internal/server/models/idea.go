package models

import (
	"math"
	"time"
)

// IdeasPageSize is the number of ideas returned per page.
const IdeasPageSize = 10

type Idea struct {
	ID         string
	Content    string
	Impact     int
	Ease       int
	Confidence int
	CreatedAt  time.Time
	ModifiedAt *time.Time
}

// AverageScore is the mean of impact, ease and confidence rounded to one decimal.
func (i *Idea) AverageScore() float64 {
	mean := float64(i.Impact+i.Ease+i.Confidence) / 3
	return math.Round(mean*10) / 10
}
