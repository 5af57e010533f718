package reports

import "strconv"

func itoa(n int) string {
	return strconv.Itoa(n)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
