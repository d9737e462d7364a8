package probe

import (
	"log/slog"
	"syscall"
)

// RaiseFileLimit lifts the open-file soft limit to 2048 (or the hard
// limit, whichever is lower). An export can hold many asset and pipe
// descriptors at once; failure to raise the limit is logged, not fatal.
func RaiseFileLimit(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		logger.Warn("cannot read open-file limit", "err", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}
	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		logger.Warn("cannot raise open-file limit", "err", err)
		return
	}
	logger.Debug("open-file limit raised", "limit", rLimit.Cur)
}
