//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package experiment

func maxRSSBytes() int64 {
	return 0
}
