package entity

// Session is a published snapshot: the session it belongs to and its state at that moment.
type Session struct {
	ID    string    `json:"id"`
	State GameState `json:"state"`
}
