package util

import "testing"

func TestValidateTimeOfDay(t *testing.T) {
	valid := []string{"00:00", "09:30", "20:00", "23:59"}
	for _, v := range valid {
		if err := ValidateTimeOfDay(v); err != nil {
			t.Errorf("ValidateTimeOfDay(%q) = %v, want nil", v, err)
		}
	}

	invalid := []string{"", "24:00", "12:60", "9:30", "12:5", "1230", "ab:cd", "12:30:00", "-1:00", "+8:05", "-0:30", "1 :00", "12: 5"}
	for _, v := range invalid {
		if err := ValidateTimeOfDay(v); err == nil {
			t.Errorf("ValidateTimeOfDay(%q) = nil, want error", v)
		}
	}
}
