package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/timeofday"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
)

// MaxBatchSize bounds a single batch resolution request
const MaxBatchSize = 1000

// ========================================
// RESOLVE DTOs
// ========================================

type ResolveAttendanceRequest struct {
	EmployeeID         string  `json:"employee_id"`
	Date               string  `json:"date"` // YYYY-MM-DD
	CheckIn            *string `json:"check_in,omitempty"`
	CheckOut           *string `json:"check_out,omitempty"`
	ScheduledIn        string  `json:"scheduled_in"`
	ScheduledOut       string  `json:"scheduled_out"`
	BreakDurationHours float64 `json:"break_duration_hours"`
	ClassifyDuration   bool    `json:"classify_duration,omitempty"`
}

func (r *ResolveAttendanceRequest) Validate() error {
	return r.ValidateAt("")
}

// ValidateAt validates the request with every field name prefixed, for use
// inside list requests.
func (r *ResolveAttendanceRequest) ValidateAt(prefix string) error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: prefix + "date", Message: "date must be in YYYY-MM-DD format"})
	}
	if !validator.IsValidTimeOfDay(r.ScheduledIn) {
		errs = append(errs, validator.ValidationError{Field: prefix + "scheduled_in", Message: "scheduled_in must be in HH:MM format"})
	}
	if !validator.IsValidTimeOfDay(r.ScheduledOut) {
		errs = append(errs, validator.ValidationError{Field: prefix + "scheduled_out", Message: "scheduled_out must be in HH:MM format"})
	}
	if r.CheckIn != nil && !validator.IsEmpty(*r.CheckIn) && !validator.IsValidTimeOfDay(*r.CheckIn) {
		errs = append(errs, validator.ValidationError{Field: prefix + "check_in", Message: "check_in must be in HH:MM format"})
	}
	if r.CheckOut != nil && !validator.IsEmpty(*r.CheckOut) && !validator.IsValidTimeOfDay(*r.CheckOut) {
		errs = append(errs, validator.ValidationError{Field: prefix + "check_out", Message: "check_out must be in HH:MM format"})
	}
	if r.BreakDurationHours < 0 {
		errs = append(errs, validator.ValidationError{Field: prefix + "break_duration_hours", Message: "break_duration_hours must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToInput converts a validated request into the calculator input.
func (r *ResolveAttendanceRequest) ToInput() (AttendanceInput, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return AttendanceInput{}, fmt.Errorf("parse date: %w", err)
	}
	scheduledIn, err := timeofday.Parse(r.ScheduledIn)
	if err != nil {
		return AttendanceInput{}, err
	}
	scheduledOut, err := timeofday.Parse(r.ScheduledOut)
	if err != nil {
		return AttendanceInput{}, err
	}
	checkIn, err := timeofday.ParsePtr(r.CheckIn)
	if err != nil {
		return AttendanceInput{}, err
	}
	checkOut, err := timeofday.ParsePtr(r.CheckOut)
	if err != nil {
		return AttendanceInput{}, err
	}

	return AttendanceInput{
		EmployeeID:         r.EmployeeID,
		Date:               date,
		CheckIn:            checkIn,
		CheckOut:           checkOut,
		ScheduledIn:        scheduledIn,
		ScheduledOut:       scheduledOut,
		BreakDurationHours: r.BreakDurationHours,
		ClassifyDuration:   r.ClassifyDuration,
	}, nil
}

type AttendanceResultResponse struct {
	EmployeeID        string  `json:"employee_id,omitempty"`
	Date              string  `json:"date"`
	CheckIn           *string `json:"check_in,omitempty"`
	CheckOut          *string `json:"check_out,omitempty"`
	WorkedHours       float64 `json:"worked_hours"`
	OvertimeHours     float64 `json:"overtime_hours"`
	LateMinutes       int     `json:"late_minutes"`
	EarlyLeaveMinutes int     `json:"early_leave_minutes"`
	ArrivalStatus     string  `json:"arrival_status"`
	WorkDuration      *string `json:"work_duration,omitempty"`
	ActionRequired    bool    `json:"action_required"`
}

// NewResultResponse maps a resolved record onto its response shape.
func NewResultResponse(r AttendanceResult) AttendanceResultResponse {
	resp := AttendanceResultResponse{
		EmployeeID:        r.EmployeeID,
		Date:              r.Date.Format("2006-01-02"),
		CheckIn:           timeOfDayString(r.CheckIn),
		CheckOut:          timeOfDayString(r.CheckOut),
		WorkedHours:       r.WorkedHours,
		OvertimeHours:     r.OvertimeHours,
		LateMinutes:       r.LateMinutes,
		EarlyLeaveMinutes: r.EarlyLeaveMinutes,
		ArrivalStatus:     string(r.ArrivalStatus),
		ActionRequired:    r.ActionRequired,
	}
	if r.WorkDuration != "" {
		d := string(r.WorkDuration)
		resp.WorkDuration = &d
	}
	return resp
}

func timeOfDayString(t *timeofday.TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}

type ResolveBatchRequest struct {
	Records          []ResolveAttendanceRequest `json:"records"`
	ClassifyDuration bool                       `json:"classify_duration,omitempty"`
}

func (r *ResolveBatchRequest) Validate() error {
	if len(r.Records) == 0 {
		return ErrEmptyBatch
	}
	if len(r.Records) > MaxBatchSize {
		return ErrBatchTooLarge
	}

	var errs validator.ValidationErrors
	for i := range r.Records {
		if err := r.Records[i].ValidateAt(fmt.Sprintf("records[%d].", i)); err != nil {
			if v, ok := err.(validator.ValidationErrors); ok {
				errs = append(errs, v...)
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceSummaryResponse struct {
	TotalRecords       int     `json:"total_records"`
	OnTime             int     `json:"on_time"`
	Late               int     `json:"late"`
	Absent             int     `json:"absent"`
	FullDay            int     `json:"full_day"`
	HalfDay            int     `json:"half_day"`
	ShortLeave         int     `json:"short_leave"`
	OnLeave            int     `json:"on_leave"`
	TotalWorkedHours   float64 `json:"total_worked_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
	TotalLateMinutes   int     `json:"total_late_minutes"`
}

func NewSummaryResponse(s AttendanceSummary) AttendanceSummaryResponse {
	return AttendanceSummaryResponse{
		TotalRecords:       s.TotalRecords,
		OnTime:             s.OnTime,
		Late:               s.Late,
		Absent:             s.Absent,
		FullDay:            s.FullDay,
		HalfDay:            s.HalfDay,
		ShortLeave:         s.ShortLeave,
		OnLeave:            s.OnLeave,
		TotalWorkedHours:   s.TotalWorkedHours,
		TotalOvertimeHours: s.TotalOvertimeHours,
		TotalLateMinutes:   s.TotalLateMinutes,
	}
}

// NewBatchResponse maps resolved records and their summary.
func NewBatchResponse(results []AttendanceResult, summary AttendanceSummary) ResolveBatchResponse {
	responses := make([]AttendanceResultResponse, 0, len(results))
	for _, r := range results {
		responses = append(responses, NewResultResponse(r))
	}
	return ResolveBatchResponse{Results: responses, Summary: NewSummaryResponse(summary)}
}

type ResolveBatchResponse struct {
	Results []AttendanceResultResponse `json:"results"`
	Summary AttendanceSummaryResponse  `json:"summary"`
}

// ========================================
// SETTINGS DTOs
// ========================================

type AttendanceSettingsResponse struct {
	ID                   string  `json:"id,omitempty"`
	CompanyID            string  `json:"company_id"`
	LateThresholdMinutes int     `json:"late_threshold_minutes"`
	StandardWorkingHours float64 `json:"standard_working_hours"`
	FullDayMinHours      float64 `json:"full_day_min_hours"`
	HalfDayMinHours      float64 `json:"half_day_min_hours"`
	ShortLeaveMinHours   float64 `json:"short_leave_min_hours"`
	IsDefault            bool    `json:"is_default"`
}

type UpdateAttendanceSettingsRequest struct {
	LateThresholdMinutes *int     `json:"late_threshold_minutes,omitempty"`
	StandardWorkingHours *float64 `json:"standard_working_hours,omitempty"`
	FullDayMinHours      *float64 `json:"full_day_min_hours,omitempty"`
	HalfDayMinHours      *float64 `json:"half_day_min_hours,omitempty"`
	ShortLeaveMinHours   *float64 `json:"short_leave_min_hours,omitempty"`
}

func (r *UpdateAttendanceSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.LateThresholdMinutes != nil && *r.LateThresholdMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "late_threshold_minutes", Message: "must be non-negative"})
	}
	if r.StandardWorkingHours != nil && *r.StandardWorkingHours <= 0 {
		errs = append(errs, validator.ValidationError{Field: "standard_working_hours", Message: "must be greater than zero"})
	}
	if r.FullDayMinHours != nil && !validator.IsInRange(*r.FullDayMinHours, 0, 24) {
		errs = append(errs, validator.ValidationError{Field: "full_day_min_hours", Message: "must be between 0 and 24"})
	}
	if r.HalfDayMinHours != nil && !validator.IsInRange(*r.HalfDayMinHours, 0, 24) {
		errs = append(errs, validator.ValidationError{Field: "half_day_min_hours", Message: "must be between 0 and 24"})
	}
	if r.ShortLeaveMinHours != nil && !validator.IsInRange(*r.ShortLeaveMinHours, 0, 24) {
		errs = append(errs, validator.ValidationError{Field: "short_leave_min_hours", Message: "must be between 0 and 24"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply merges the non-nil fields of the request into cfg.
func (r *UpdateAttendanceSettingsRequest) Apply(cfg ScheduleConfig) ScheduleConfig {
	if r.LateThresholdMinutes != nil {
		cfg.LateThresholdMinutes = *r.LateThresholdMinutes
	}
	if r.StandardWorkingHours != nil {
		cfg.StandardWorkingHours = *r.StandardWorkingHours
	}
	if r.FullDayMinHours != nil {
		cfg.FullDayMinHours = *r.FullDayMinHours
	}
	if r.HalfDayMinHours != nil {
		cfg.HalfDayMinHours = *r.HalfDayMinHours
	}
	if r.ShortLeaveMinHours != nil {
		cfg.ShortLeaveMinHours = *r.ShortLeaveMinHours
	}
	return cfg
}
