package errors

import "errors"

// ErrSlotConflict 同班级同日期的时间段与已有场次重叠
var ErrSlotConflict = errors.New("该时间段已存在签到场次")
