package runner

import "strings"

// Quote makes s safe to embed as one argument in a Shell command line for goos.
func Quote(goos, s string) string {
	if goos == "windows" {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Join quotes each element and joins them with spaces.
func Join(goos string, argv ...string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = Quote(goos, a)
	}
	return strings.Join(quoted, " ")
}
