package model

type Comment struct {
	ID      string `json:"id" db:"id"`
	User    string `json:"user" db:"user"`
	Comment string `json:"comment" db:"comment"`
	Ctime   int64  `json:"ctime" db:"ctime"`
}
