package models

type Location struct {
	ID      int     `json:"id" db:"id"`
	Name    string  `json:"name" db:"name"`
	Address *string `json:"address" db:"address"`
	City    *string `json:"city" db:"city"`
}
