package model

// Task is one entry of the list: a title plus a done flag.
// Missing fields decode to their zero values.
type Task struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}
