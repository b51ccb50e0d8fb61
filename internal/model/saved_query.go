package model

type SavedQuery struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	Query   string `json:"query"`
	Ctime   int64  `json:"ctime"`
	Mtime   int64  `json:"mtime"`
}
