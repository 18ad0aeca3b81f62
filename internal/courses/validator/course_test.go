package validator

import (
	"strings"
	"testing"
	"time"

	"coursedesk/pkg/logger"
	"coursedesk/pkg/model"
)

func newValidatorForTest() *CourseValidator {
	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.JSON, Service: "test"})
	return NewCourseValidator(log)
}

func validCourse() *model.Course {
	start := time.Now().Add(48 * time.Hour)
	return &model.Course{
		Name:      "Go Fundamentals",
		StartDate: start,
		EndDate:   start.Add(48 * time.Hour),
		MaxSeats:  12,
		Status:    model.CoursePlanned,
	}
}

func TestValidate(t *testing.T) {
	v := newValidatorForTest()

	tests := []struct {
		name    string
		mutate  func(c *model.Course)
		wantErr string
	}{
		{"valid course", func(c *model.Course) {}, ""},
		{"single day course", func(c *model.Course) { c.EndDate = c.StartDate }, ""},
		{"missing name", func(c *model.Course) { c.Name = "" }, "Name"},
		{"name too short", func(c *model.Course) { c.Name = "G" }, "Name"},
		{"zero seats", func(c *model.Course) { c.MaxSeats = 0 }, "MaxSeats"},
		{"unknown status", func(c *model.Course) { c.Status = "PAUSED" }, "Status"},
		{"malformed id", func(c *model.Course) { c.ID = "not-an-objectid" }, "ID"},
		{"end before start", func(c *model.Course) { c.EndDate = c.StartDate.Add(-time.Hour) }, "EndDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			course := validCourse()
			tt.mutate(course)

			err := v.Validate(course)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention field %s", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := newValidatorForTest()
	now := time.Now()
	later := now.Add(24 * time.Hour)
	earlier := now.Add(-24 * time.Hour)

	tests := []struct {
		name    string
		update  *model.CourseUpdate
		wantErr bool
	}{
		{"empty update", &model.CourseUpdate{}, false},
		{"name only", &model.CourseUpdate{Name: "Advanced Go"}, false},
		{"valid date pair", &model.CourseUpdate{StartDate: &now, EndDate: &later}, false},
		{"end before start", &model.CourseUpdate{StartDate: &now, EndDate: &earlier}, true},
		{"end date alone is accepted", &model.CourseUpdate{EndDate: &earlier}, false},
		{"invalid status", &model.CourseUpdate{Status: "PAUSED"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpdate(tt.update)
			if tt.wantErr && err == nil {
				t.Error("expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
