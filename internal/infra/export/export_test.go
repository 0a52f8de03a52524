package export

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/xuri/excelize/v2"

	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

func sampleReport() Report {
	at := time.Date(2025, 6, 16, 9, 30, 0, 0, time.UTC)
	return Report{
		GeneratedAt: at,
		Summary:     []Metric{{Name: "Total bookings", Value: 1}},
		Appointments: []models.Appointment{{
			ID:              3,
			Lead:            &models.Lead{Name: "Acme", Phone: "555"},
			Datetime:        at,
			DurationMinutes: 30,
			Status:          "confirmed",
			IsAutoScheduled: true,
		}},
		PopularSlots: []SlotRow{{Time: "09:30", Scheduled: 1}},
	}
}

func TestBuildWorkbook(t *testing.T) {
	buf, err := BuildWorkbook(sampleReport())
	if err != nil {
		t.Fatalf("BuildWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 || sheets[0] != SheetSummary {
		t.Fatalf("sheets = %v", sheets)
	}

	name, _ := f.GetCellValue(SheetAppointments, "B2")
	clock, _ := f.GetCellValue(SheetAppointments, "E2")
	if name != "Acme" || clock != "09:30" {
		t.Errorf("appointment row = %q %q", name, clock)
	}

	slot, _ := f.GetCellValue(SheetPopularSlots, "A2")
	if slot != "09:30" {
		t.Errorf("popular slot = %q", slot)
	}
}

func TestReportFileName(t *testing.T) {
	if got := sampleReport().FileName(); got != "scheduling-report-20250616-0930.xlsx" {
		t.Errorf("FileName = %q", got)
	}
}

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Uploader_Upload(t *testing.T) {
	fake := &fakeS3{}
	u := &S3Uploader{client: fake, bucket: "reports-bucket", prefix: "reports/"}

	loc, err := u.Upload(context.Background(), "r.xlsx", []byte("xlsx"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if loc != "s3://reports-bucket/reports/r.xlsx" {
		t.Errorf("location = %q", loc)
	}
	if aws.ToString(fake.in.Key) != "reports/r.xlsx" || string(fake.body) != "xlsx" {
		t.Errorf("put = %s %q", aws.ToString(fake.in.Key), fake.body)
	}
	if aws.ToString(fake.in.ContentType) != ContentType {
		t.Errorf("content type = %s", aws.ToString(fake.in.ContentType))
	}
}
