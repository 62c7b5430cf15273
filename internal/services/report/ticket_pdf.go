// Package services содержит построение печатной формы заявки в формате PDF.
package services

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/jung-kurt/gofpdf"

	"github.com/magabrotheeeer/repair-crm/internal/models"
)

// ReportService строит PDF-документ заявки с фиксированной раскладкой:
// информация о клиенте и устройстве, описание проблемы и работ,
// таблица запчастей и итоговая стоимость.
type ReportService struct {
	log *slog.Logger
}

// NewReportService создает новый экземпляр ReportService.
func NewReportService(log *slog.Logger) *ReportService {
	return &ReportService{log: log}
}

// BuildTicketPDF рендерит печатную форму заявки и возвращает содержимое PDF.
func (s *ReportService) BuildTicketPDF(report *models.TicketReport) ([]byte, error) {
	const op = "services.report.BuildTicketPDF"

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Ticket %d", report.Ticket.ID), false)
	pdf.AddPage()

	s.heading(pdf, fmt.Sprintf("Repair Ticket #%d", report.Ticket.ID))

	s.sectionTitle(pdf, "Client Information")
	s.line(pdf, "Client", report.Client.FullName())
	s.line(pdf, "Landline", report.Client.Landline())
	s.line(pdf, "Mobile", report.Client.MobilePhone())
	if report.Client.Email != "" {
		s.line(pdf, "Email", report.Client.Email)
	}
	pdf.Ln(4)

	s.sectionTitle(pdf, "Device Information")
	s.line(pdf, "Type", report.Type)
	if report.Model != "" {
		s.line(pdf, "Model", report.Model)
	}
	s.line(pdf, "Serial number", report.Device.SerialNumber)
	if report.Device.Description != "" {
		s.line(pdf, "Description", report.Device.Description)
	}
	pdf.Ln(4)

	s.sectionTitle(pdf, "Ticket")
	s.line(pdf, "Status", report.Status.Status)
	s.line(pdf, "Admission date", report.Ticket.AdmissionDate.Format("02-01-2006"))
	s.line(pdf, "Discharge date", report.Ticket.DischargeFullDate())
	pdf.Ln(2)
	s.textBlock(pdf, "Problem", report.Ticket.Problem)
	s.textBlock(pdf, "Diagnosis", report.Ticket.Diagnosis)
	s.textBlock(pdf, "Actions", report.Ticket.Actions)
	pdf.Ln(4)

	s.sectionTitle(pdf, "Parts")
	s.partsTable(pdf, report)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}

func (s *ReportService) heading(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 153, 204)
	pdf.CellFormat(0, 12, title, "B", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)
}

func (s *ReportService) sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 153, 204)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func (s *ReportService) line(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 6, label+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func (s *ReportService) textBlock(pdf *gofpdf.Fpdf, label, text string) {
	if text == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, label, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, text, "", "L", false)
	pdf.Ln(2)
}

func (s *ReportService) partsTable(pdf *gofpdf.Fpdf, report *models.TicketReport) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(80, 7, "Part", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 7, "Serial number", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 7, "Charge", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range report.Charges {
		pdf.CellFormat(80, 6, line.PartName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, line.SerialNumber, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, line.Charge.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(140, 6, "Parts cost", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, report.PartsCost().StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.CellFormat(140, 6, "Work charge", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, report.Ticket.WorkCharge.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.CellFormat(140, 6, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, report.TotalCost().StringFixed(2), "1", 1, "R", false, 0, "")
}
