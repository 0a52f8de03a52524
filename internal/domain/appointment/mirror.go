package appointment

import "github.com/BruksfildServices01/lead-scheduler/internal/models"

// LeadStatus is the appointment status a lead mirrors: the status of its
// latest active appointment, or of its latest appointment when none is
// active. Empty for a lead without appointments.
func LeadStatus(apps []models.Appointment) string {
	var latest, latestActive *models.Appointment

	for i := range apps {
		ap := &apps[i]
		if later(ap, latest) {
			latest = ap
		}
		if Status(ap.Status).Active() && later(ap, latestActive) {
			latestActive = ap
		}
	}

	switch {
	case latestActive != nil:
		return latestActive.Status
	case latest != nil:
		return latest.Status
	}
	return ""
}

// later orders by start, then by id for appointments created at the same start.
func later(a, than *models.Appointment) bool {
	if than == nil {
		return true
	}
	if !a.Datetime.Equal(than.Datetime) {
		return a.Datetime.After(than.Datetime)
	}
	return a.ID > than.ID
}
