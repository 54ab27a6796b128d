package model

// Image binds a stored blob to the statement supplied at upload time.
// FileKey is set once at creation and never mutated afterwards.
type Image struct {
	ID        string `json:"id" db:"id"`
	FileKey   string `json:"file_key" db:"file_key"`
	URL       string `json:"url" db:"url"`
	Statement string `json:"statement" db:"statement"`
	Ctime     int64  `json:"ctime" db:"ctime"`
}
