package services

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/aladdinbruv/docproche-sub000/models"
)

// RenderPrescriptionPDF lays out a prescription as an A4 document.
func RenderPrescriptionPDF(p *models.Prescription, patient, doctor *models.User) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 70, 140)
	pdf.CellFormat(0, 10, "DocProche - Medical Prescription", "", 1, "C", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 7, "Issued "+p.CreatedAt.Format("02 Jan 2006"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	addDetail(pdf, tr, "Prescription", p.ID)
	addDetail(pdf, tr, "Doctor", "Dr. "+doctor.FullName)
	addDetail(pdf, tr, "Patient", patient.FullName)
	if patient.DateOfBirth != nil {
		addDetail(pdf, tr, "Date of birth", *patient.DateOfBirth)
	}
	addDetail(pdf, tr, "Diagnosis", p.Diagnosis)
	addDetail(pdf, tr, "Status", string(p.Status))
	if p.ValidUntil != nil {
		addDetail(pdf, tr, "Valid until", *p.ValidUntil)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Medications", "1", 1, "C", false, 0, "")

	for i, m := range p.Medications {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("%d. %s", i+1, m.Name)), "", 1, "L", false, 0, "")
		addDetail(pdf, tr, "Dosage", m.Dosage)
		addDetail(pdf, tr, "Frequency", m.Frequency)
		addDetail(pdf, tr, "Duration", m.Duration)
		if m.Instructions != nil && *m.Instructions != "" {
			addDetail(pdf, tr, "Instructions", *m.Instructions)
		}
		pdf.Ln(2)
	}

	if p.Notes != nil && *p.Notes != "" {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, tr(*p.Notes), "", "L", false)
	}

	pdf.SetY(pdf.GetY() + 12)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 10, "This is a computer generated prescription", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render prescription pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func addDetail(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(45, 8, label, "1", 0, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 8, tr(value), "1", 1, "", false, 0, "")
}
