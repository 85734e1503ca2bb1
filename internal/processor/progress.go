package processor

import "fmt"

// ProgressMessage reports how many of the attempted files were encoded,
// net of rejected files.
func ProgressMessage(current, total, errors int) string {
	msg := fmt.Sprintf("%d out of %d files are encoded.", current-errors, total-errors)
	if errors > 0 {
		unit := "files"
		if errors == 1 {
			unit = "file"
		}
		msg += fmt.Sprintf(" (%d %s failed)", errors, unit)
	}
	return msg
}
