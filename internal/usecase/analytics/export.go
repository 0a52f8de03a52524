package analytics

import (
	"bytes"
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/lead-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/lead-scheduler/internal/httperr"
	"github.com/BruksfildServices01/lead-scheduler/internal/infra/export"
)

// Uploader stores a finished report and returns where it went.
type Uploader interface {
	Upload(ctx context.Context, name string, body []byte) (string, error)
}

type ExportReport struct {
	repo     domain.Repository
	uploader Uploader
	loc      *time.Location
	now      func() time.Time
	log      *zap.Logger
}

// NewExportReport accepts a nil uploader; Upload then reports the export
// target as unavailable.
func NewExportReport(
	repo domain.Repository,
	uploader Uploader,
	loc *time.Location,
	log *zap.Logger,
) *ExportReport {
	return &ExportReport{
		repo:     repo,
		uploader: uploader,
		loc:      loc,
		now:      time.Now,
		log:      log,
	}
}

// Build renders the workbook and its file name.
func (uc *ExportReport) Build(ctx context.Context) (*bytes.Buffer, string, error) {
	apps, err := uc.repo.ListAppointments(ctx, domain.ListFilter{})
	if err != nil {
		return nil, "", httperr.Internal("report_query_failed", err)
	}
	stats := Compute(apps)

	report := export.Report{
		GeneratedAt: uc.now(),
		Location:    uc.loc,
		Summary: []export.Metric{
			{Name: "Total bookings", Value: stats.TotalBookings},
			{Name: "Show rate (%)", Value: stats.ShowRate},
			{Name: "No-show rate (%)", Value: stats.NoShowRate},
			{Name: "Avg time to booking (h)", Value: stats.AvgTimeToBookingHours},
			{Name: "Auto-scheduled", Value: stats.AutoScheduledCount},
			{Name: "Manual", Value: stats.ManualCount},
			{Name: "Most popular time", Value: stats.MostPopularTime},
		},
		Appointments: apps,
	}
	for _, s := range stats.PopularSlots {
		report.PopularSlots = append(report.PopularSlots, export.SlotRow{
			Time:      s.Time,
			Scheduled: s.Scheduled,
			Showed:    s.Showed,
			NoShow:    s.NoShow,
		})
	}

	buf, err := export.BuildWorkbook(report)
	if err != nil {
		return nil, "", httperr.Internal("report_render_failed", err)
	}
	return buf, report.FileName(), nil
}

func (uc *ExportReport) Upload(ctx context.Context) (string, error) {
	if uc.uploader == nil {
		return "", httperr.Unavailable("export_not_configured", "Report storage is not configured")
	}

	buf, name, err := uc.Build(ctx)
	if err != nil {
		return "", err
	}

	location, err := uc.uploader.Upload(ctx, name, buf.Bytes())
	if err != nil {
		return "", httperr.Internal("report_upload_failed", err)
	}

	uc.log.Info("scheduling report uploaded", zap.String("location", location))
	return location, nil
}
