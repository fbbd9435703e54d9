package proc

import (
	"math"

	"golang.org/x/sys/unix"

	"github.com/sjzar/procwatch/internal/errors"
)

// Terminator forcibly ends a process.
type Terminator interface {
	Kill(pid uint32) error
}

// SignalTerminator sends SIGKILL.
type SignalTerminator struct{}

// Kill 强制终止进程
// 返回 nil、无权限错误或进程不存在错误
func (SignalTerminator) Kill(pid uint32) error {
	// 0 和负数在 kill(2) 中表示进程组
	if pid == 0 || pid > math.MaxInt32 {
		return errors.ErrInvalidArg("pid")
	}

	switch err := unix.Kill(int(pid), unix.SIGKILL); err {
	case nil:
		return nil
	case unix.EPERM:
		return errors.KillPermissionDenied(pid, err)
	case unix.ESRCH:
		return errors.ProcessNotFound(pid, err)
	default:
		return errors.KillFailed(pid, err)
	}
}
