//go:build !windows

package installer

// defaultDir is the well-known system binary directory on POSIX targets.
func defaultDir() string {
	return "/usr/local/bin"
}
