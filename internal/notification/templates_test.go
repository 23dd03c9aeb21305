package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	out := Render("{student_name} was marked absent on {date}. Reason: {reason}.", map[string]string{
		"student_name": "Aisha",
		"date":         "2026-03-02",
	})
	assert.Equal(t, "Aisha was marked absent on 2026-03-02. Reason: {reason}.", out)
}

func TestTemplateFor(t *testing.T) {
	assert.Equal(t, PriorityHigh, TemplateFor(EventAttendanceAbsent).Priority)
	assert.Equal(t, TargetAdmin, TemplateFor(EventStaffAttendanceLate).TargetRole)

	unknown := TemplateFor("something_new")
	assert.Equal(t, templates[EventGeneralAnnouncement], unknown)
}

func TestAudienceOf(t *testing.T) {
	assert.Equal(t, []string{TargetAdmin, TargetStaff, TargetAll}, AudienceOf("principal"))
	assert.Equal(t, []string{TargetStaff, TargetAll}, AudienceOf("teacher"))
	assert.Equal(t, []string{TargetAll}, AudienceOf("device"))
}
