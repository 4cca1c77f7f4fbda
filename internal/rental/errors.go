package rental

import "errors"

// 统一的业务错误分类。核心层只返回这几类（通过 %w 包装细节），
// API 层用 errors.Is 映射为 HTTP 状态码。
var (
	// ErrNotFound 车辆/用户 id 在系统中不存在。
	ErrNotFound = errors.New("not found")

	// ErrInvalidState 状态机不允许的流转（重复租车、重复还车等）。
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation 入参不合法（日期区间反了、价格为负、联系方式缺失等）。
	ErrValidation = errors.New("validation failed")

	// ErrStoreFailure 底层存储调用失败或超时。核心层不做自动重试。
	ErrStoreFailure = errors.New("store failure")

	// ErrInconsistent 多步变更只完成了一部分且回滚失败，需要人工对账。
	// 出现时必须用独立的日志字段记录，区别于普通失败。
	ErrInconsistent = errors.New("inconsistent state")
)

// ErrorCode 返回给 API 层使用的稳定错误码。
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrInvalidState):
		return "INVALID_STATE"
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrInconsistent):
		return "INCONSISTENT"
	case errors.Is(err, ErrStoreFailure):
		return "STORE_FAILURE"
	default:
		return "INTERNAL"
	}
}
