package errors

import (
	"fmt"
	"net/http"
)

// 进程表相关错误

// EnumerationFailed 创建进程表无法枚举错误
func EnumerationFailed(root string, cause error) *AppError {
	return New(ErrTypeEnumeration, fmt.Sprintf("cannot list process table: %s", root), cause, http.StatusServiceUnavailable).WithStack()
}

// TickSourceUnreadable 创建系统 CPU 计数不可读错误
func TickSourceUnreadable(path string, cause error) *AppError {
	return New(ErrTypeEnumeration, fmt.Sprintf("cannot read system cpu ticks: %s", path), cause, http.StatusInternalServerError).WithStack()
}

// 进程控制相关错误

// KillPermissionDenied 创建无权终止进程错误
func KillPermissionDenied(pid uint32, cause error) *AppError {
	return Forbidden(fmt.Sprintf("permission denied to kill process %d", pid), cause)
}

// ProcessNotFound 创建进程不存在错误
func ProcessNotFound(pid uint32, cause error) *AppError {
	return NotFound(fmt.Sprintf("process %d", pid), cause)
}

// KillFailed 创建终止进程失败错误
func KillFailed(pid uint32, cause error) *AppError {
	return New(ErrTypeProcess, fmt.Sprintf("failed to kill process %d", pid), cause, http.StatusInternalServerError).WithStack()
}

// 共享状态相关错误

// StatePoisoned 创建共享状态不可用错误
func StatePoisoned(cause error) *AppError {
	return New(ErrTypeState, "process state is unavailable", cause, http.StatusServiceUnavailable).WithStack()
}

// 配置相关错误

// ConfigInvalid 创建配置无效错误
func ConfigInvalid(field string, cause error) *AppError {
	return Config(fmt.Sprintf("invalid config: %s", field), cause)
}
