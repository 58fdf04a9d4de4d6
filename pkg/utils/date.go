package utils

import (
	"sync"
	"time"
)

var (
	locOnce sync.Once
	loc     *time.Location
)

// Location returns Asia/Seoul, falling back to a fixed +09:00 zone when tzdata is missing.
func Location() *time.Location {
	locOnce.Do(func() {
		l, err := time.LoadLocation("Asia/Seoul")
		if err != nil {
			l = time.FixedZone("KST", 9*60*60)
		}
		loc = l
	})
	return loc
}

func TimeNowKST() time.Time {
	return time.Now().In(Location())
}

// PrettyDate renders t as "02 Jan 2006 15:04 KST".
func PrettyDate(t time.Time) string {
	return t.In(Location()).Format("02 Jan 2006 15:04") + " KST"
}
