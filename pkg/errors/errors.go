package errors

import "errors"

// ErrUniqueActiveCycle 唯一活动周期冲突：并发创建默认周期时由
// academic_cycles 上的部分唯一索引触发，调用方应重读当前活动周期
var ErrUniqueActiveCycle = errors.New("已存在活动考核周期")
