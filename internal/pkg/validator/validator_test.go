package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31", "2024-02-29"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", "2023-02-29", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidTimeOfDay(t *testing.T) {
	valid := []string{"09:00", "9:00", "23:59", "17:30:15", "00:00"}
	invalid := []string{"24:00", "12:60", "9am", "", "09-00"}
	for _, s := range valid {
		if !IsValidTimeOfDay(s) {
			t.Errorf("IsValidTimeOfDay(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidTimeOfDay(s) {
			t.Errorf("IsValidTimeOfDay(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"flat", "progressive"}
	if !IsInSlice("flat", slice) {
		t.Errorf("IsInSlice('flat') = false, want true")
	}
	if IsInSlice("none", slice) {
		t.Errorf("IsInSlice('none') = true, want false")
	}
}

func TestIsInRange(t *testing.T) {
	if !IsInRange(0, 0, 100) || !IsInRange(100, 0, 100) {
		t.Errorf("IsInRange bounds should be inclusive")
	}
	if IsInRange(100.5, 0, 100) {
		t.Errorf("IsInRange(100.5, 0, 100) = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "date", Message: "invalid"},
		{Field: "scheduled_in", Message: "required"},
	}
	got := errs.Error()
	want := "date: invalid; scheduled_in: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "date", Message: "invalid"},
		{Field: "scheduled_in", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"date": "invalid", "scheduled_in": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}
