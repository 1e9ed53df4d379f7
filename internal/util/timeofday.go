package util

// ValidateTimeOfDay 校验 "HH:MM" 形式的 24 小时制时刻（补零，例如 "08:05"）。
// 四个数字位必须是纯数字，"+8:05" 这类带符号写法一律拒绝，
// 否则入库后小时前缀匹配永远选不中该用户。
func ValidateTimeOfDay(s string) error {
	if len(s) != 5 || s[2] != ':' {
		return ErrInvalidTimeOfDay
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return ErrInvalidTimeOfDay
		}
	}

	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')
	if hour > 23 || minute > 59 {
		return ErrInvalidTimeOfDay
	}
	return nil
}
