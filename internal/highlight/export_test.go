package highlight

import "regexp"

var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;]*m`)
