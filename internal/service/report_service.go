package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"ktrn/internal/api"
)

// ReportService fetches the admin report and writes it out as a
// spreadsheet.
type ReportService struct {
	client    *api.Client
	exportDir string
}

// NewReportService creates a ReportService writing exports under
// exportDir.
func NewReportService(client *api.Client, exportDir string) *ReportService {
	return &ReportService{client: client, exportDir: exportDir}
}

// Fetch pulls the report narrowed by q.
func (s *ReportService) Fetch(ctx context.Context, q api.ReportQuery) (api.Report, error) {
	return s.client.GetReport(ctx, q)
}

// Export writes the report to a timestamped xlsx file in the export
// directory and returns its path.
func (s *ReportService) Export(report api.Report, now time.Time) (string, error) {
	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(s.exportDir, fmt.Sprintf("ktrn-report-%s.xlsx", now.Format("20060102-150405")))
	if err := WriteReportXLSX(report, path); err != nil {
		return "", err
	}
	return path, nil
}

// WriteReportXLSX writes report to path as a two-sheet workbook: an
// Overview sheet with the headline numbers and breakdowns, and a
// Requests sheet with the per-request detail rows.
func WriteReportXLSX(report api.Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Overview"); err != nil {
		return fmt.Errorf("naming overview sheet: %w", err)
	}

	overview := [][]interface{}{
		{"Total Requests", report.TotalRequests},
		{"Approved Requests", report.ApprovedRequests},
		{"Best Performing Site", report.BestPerformingSite.SiteName, report.BestPerformingSite.TotalRequests},
		{"Best Partner", report.BestPartner.PartnerName, report.BestPartner.TotalRequests},
	}
	row := 1
	for _, cells := range overview {
		if err := setRow(f, "Overview", row, cells); err != nil {
			return err
		}
		row++
	}

	row++
	if err := setRow(f, "Overview", row, []interface{}{"Requests by Site"}); err != nil {
		return err
	}
	row++
	for _, site := range report.RequestDistribution {
		if err := setRow(f, "Overview", row, []interface{}{site.SiteName, site.TotalRequests}); err != nil {
			return err
		}
		row++
	}

	row++
	if err := setRow(f, "Overview", row, []interface{}{"Requests by Status"}); err != nil {
		return err
	}
	row++
	for _, status := range report.StatusBreakdown {
		if err := setRow(f, "Overview", row, []interface{}{string(status.Status), status.TotalRequests}); err != nil {
			return err
		}
		row++
	}

	if _, err := f.NewSheet("Requests"); err != nil {
		return fmt.Errorf("creating requests sheet: %w", err)
	}
	header := []interface{}{"Username", "Email", "Site", "Partner", "Status", "Requested Time"}
	if err := setRow(f, "Requests", 1, header); err != nil {
		return err
	}
	for i, detail := range report.UserDetails {
		cells := []interface{}{
			detail.Username,
			detail.Email,
			detail.SiteName,
			detail.PartnerName,
			detail.Status,
			detail.RequestedTime,
		}
		if err := setRow(f, "Requests", i+2, cells); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}
