//go:build linux || darwin || freebsd || netbsd || openbsd

package experiment

import (
	"runtime"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Peak resident set size of this process so far, or 0 if unknown
func maxRSSBytes() int64 {
	var usage unix.Rusage
	err := unix.Getrusage(unix.RUSAGE_SELF, &usage)
	if err != nil {
		log.Debug("getrusage() failed: ", err)
		return 0
	}

	if runtime.GOOS == "darwin" {
		// Already in bytes
		return int64(usage.Maxrss)
	}

	// Kilobytes everywhere else
	return int64(usage.Maxrss) * 1024
}
