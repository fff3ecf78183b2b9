package models

import "time"

// now is the clock used for creation and update timestamps. Tests replace it.
var now = func() time.Time {
	return time.Now().UTC()
}
