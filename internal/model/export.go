package model

type Export struct {
	Key   string `json:"key"`
	Rows  int    `json:"rows"`
	URL   string `json:"url"`
	Ctime int64  `json:"ctime"`
}
