package entity

import (
	"time"
)

// Flight represents a single flight offer loaded from a dataset.
// Flights are immutable once loaded; queries operate on snapshots.
type Flight struct {
	Airline  string
	From     string
	To       string
	FromCity string
	ToCity   string
	Date     time.Time
	Price    float64
	Duration int // minutes
	Stops    int
}

// Route returns the route key in FROM-TO form, e.g. "BOS-ORD".
func (f *Flight) Route() string {
	return f.From + "-" + f.To
}

// DayOfWeek returns the weekday name of the flight date.
func (f *Flight) DayOfWeek() string {
	return f.Date.Weekday().String()
}
