package rental

// Status 车辆租赁状态枚举（持久化为 vehicles 表的 available 布尔列）。
type Status string

const (
	StatusAvailable Status = "available" // 可租
	StatusRented    Status = "rented"    // 已被租出
)

// allowTransition 定义租赁状态机的允许流转关系。
// 只有两条合法边：rent（可租 -> 已租）和 return（已租 -> 可租）。
// 注意：同状态不允许“流转”，对 RENTED 再 rent、对 AVAILABLE 再 return
// 都必须显式拒绝，而不是静默接受。
var allowTransition = map[Status][]Status{
	StatusAvailable: {StatusRented},
	StatusRented:    {StatusAvailable},
}

// CanTransition 判断 from -> to 是否是一个允许的状态流转。
func CanTransition(from, to Status) bool {
	if from == to {
		return false
	}
	allowed, ok := allowTransition[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// statusOf 把 available 布尔值映射为状态枚举。
func statusOf(available bool) Status {
	if available {
		return StatusAvailable
	}
	return StatusRented
}
