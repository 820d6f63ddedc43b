package checkpoint

import "time"

var timeNow = time.Now
