package timeutil

import "time"

func NowUnix() int64 {
	return time.Now().Unix()
}

// LoadLocation resolves a configured timezone name; empty means UTC.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}
