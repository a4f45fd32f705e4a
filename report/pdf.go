package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"school-admin/config"
	"school-admin/models"
)

const (
	fontFamily = "gofont"
	// The embedded font has no glyph for the lira sign.
	pdfCurrency = "TL"
	pageMargin  = 12.0
	lineHeight  = 5.0
)

type rgb struct{ r, g, b int }

var (
	colorPrimary = rgb{37, 99, 235}
	colorText    = rgb{51, 51, 51}
	colorMuted   = rgb{102, 102, 102}
	colorBorder  = rgb{229, 231, 235}
	colorPanel   = rgb{248, 250, 252}
	colorPrice   = rgb{254, 243, 199}
	colorPriceFg = rgb{146, 64, 14}
	colorTag     = rgb{224, 231, 255}
	colorTagFg   = rgb{55, 48, 163}
	colorGreen   = rgb{5, 150, 105}
	colorRed     = rgb{220, 38, 38}
)

// ReportFileName is Name_Surname_Rapor_DD_MM_YYYY.pdf.
func ReportFileName(student *models.Student, now time.Time) string {
	clean := func(s string) string {
		return strings.Join(strings.Fields(s), "_")
	}
	return fmt.Sprintf("%s_%s_Rapor_%s.pdf", clean(student.Name), clean(student.Surname), now.Format("02_01_2006"))
}

type studentReport struct {
	pdf     *fpdf.Fpdf
	width   float64
	student *models.Student
}

// StudentReportPDF renders the student report with its price quotes to w.
func StudentReportPDF(w io.Writer, student *models.Student, school config.SchoolProfile, now time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", gobold.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "I", goitalic.TTF)
	pdf.SetTitle("Öğrenci Raporu - "+student.FullName(), true)
	pdf.SetCreator(school.Name, true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin+8)

	pageWidth, _ := pdf.GetPageSize()
	r := &studentReport{pdf: pdf, width: pageWidth - 2*pageMargin, student: student}

	pdf.SetFooterFunc(func() { r.footer(school, now) })
	pdf.AddPage()

	r.header(school)
	r.studentInfo()
	r.priceQuotes()

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build pdf: %w", err)
	}
	return pdf.Output(w)
}

func (r *studentReport) font(style string, size float64, c rgb) {
	r.pdf.SetFont(fontFamily, style, size)
	r.pdf.SetTextColor(c.r, c.g, c.b)
}

func (r *studentReport) header(school config.SchoolProfile) {
	pdf := r.pdf
	r.font("B", 16, colorPrimary)
	pdf.CellFormat(r.width, 8, school.Name, "", 1, "C", false, 0, "")

	r.font("", 8, colorMuted)
	for _, line := range contactLines(school) {
		pdf.CellFormat(r.width, 4, line, "", 1, "C", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetDrawColor(colorPrimary.r, colorPrimary.g, colorPrimary.b)
	pdf.SetLineWidth(0.8)
	y := pdf.GetY()
	pdf.Line(pageMargin, y, pageMargin+r.width, y)
	pdf.SetLineWidth(0.2)
	pdf.Ln(6)
}

func contactLines(school config.SchoolProfile) []string {
	var lines []string
	if school.Address != "" {
		lines = append(lines, school.Address)
	}

	var phones []string
	if school.Phone != "" {
		phones = append(phones, "Tel: "+school.Phone)
	}
	if school.WhatsApp != "" {
		phones = append(phones, "WhatsApp: "+school.WhatsApp)
	}
	if len(phones) > 0 {
		lines = append(lines, strings.Join(phones, " | "))
	}

	var online []string
	if school.Email != "" {
		online = append(online, "E-posta: "+school.Email)
	}
	if school.Web != "" {
		online = append(online, "Web: "+school.Web)
	}
	if len(online) > 0 {
		lines = append(lines, strings.Join(online, " | "))
	}
	return lines
}

func (r *studentReport) sectionTitle(title string) {
	pdf := r.pdf
	r.font("B", 11, colorPrimary)
	pdf.CellFormat(r.width, 6, title, "", 1, "L", false, 0, "")
	pdf.SetDrawColor(colorBorder.r, colorBorder.g, colorBorder.b)
	pdf.SetLineWidth(0.5)
	y := pdf.GetY()
	pdf.Line(pageMargin, y, pageMargin+r.width, y)
	pdf.SetLineWidth(0.2)
	pdf.Ln(3)
}

func (r *studentReport) studentInfo() {
	s := r.student
	r.sectionTitle("Öğrenci Bilgileri")

	email := s.Email
	if email == "" {
		email = "Belirtilmemiş"
	}
	items := [][2]string{
		{"Adı Soyadı", s.FullName()},
		{"Telefon", s.Phone},
		{"E-posta", email},
		{"Eğitim Seviyesi", s.EducationLevel.Label()},
		{"Kayıt Tarihi", ShortDate(s.CreatedAt)},
		{"Durum", s.Status.Label()},
		{"İletişim Türü", s.ContactType.Label()},
	}

	pdf := r.pdf
	colWidth := r.width / 2
	pdf.SetFillColor(colorPanel.r, colorPanel.g, colorPanel.b)
	for i := 0; i < len(items); i += 2 {
		y := pdf.GetY()
		for col := 0; col < 2 && i+col < len(items); col++ {
			x := pageMargin + float64(col)*colWidth
			pdf.SetXY(x, y)
			r.font("B", 7.5, colorMuted)
			pdf.CellFormat(colWidth, 4, items[i+col][0], "", 2, "L", true, 0, "")
			r.font("", 10, colorText)
			pdf.CellFormat(colWidth, 6, items[i+col][1], "", 2, "L", true, 0, "")
		}
		pdf.SetXY(pageMargin, y+10)
	}
	pdf.Ln(2)

	r.tagRow("İlgilenilen Diller", s.Languages)
	if len(s.InterestedLevels) > 0 {
		r.tagRow("İlgilenilen Seviyeler", levelLabels(s.InterestedLevels))
	}
	if s.PlacementTestLevel != nil {
		result := s.PlacementTestLevel.Label()
		if s.PlacementTestTeacher != "" {
			result += fmt.Sprintf(" (Sınavı yapan: %s)", s.PlacementTestTeacher)
		}
		r.font("B", 7.5, colorMuted)
		pdf.CellFormat(r.width, 4, "Seviye Tespit Sınavı Sonucu", "", 1, "L", false, 0, "")
		r.font("", 10, colorText)
		pdf.CellFormat(r.width, 6, result, "", 1, "L", false, 0, "")
	}
	if strings.TrimSpace(s.Notes) != "" {
		r.font("B", 7.5, colorMuted)
		pdf.CellFormat(r.width, 4, "Notlar", "", 1, "L", false, 0, "")
		r.font("", 9, colorText)
		pdf.MultiCell(r.width, 4.5, s.Notes, "", "L", false)
	}
	pdf.Ln(4)
}

func (r *studentReport) tagRow(label string, tags []string) {
	pdf := r.pdf
	r.font("B", 7.5, colorMuted)
	pdf.CellFormat(r.width, 5, label, "", 1, "L", false, 0, "")
	if len(tags) == 0 {
		r.font("I", 8, colorMuted)
		pdf.CellFormat(r.width, 5, "-", "", 1, "L", false, 0, "")
		return
	}

	r.font("", 8, colorTagFg)
	pdf.SetFillColor(colorTag.r, colorTag.g, colorTag.b)
	x := pageMargin
	for _, tag := range tags {
		w := pdf.GetStringWidth(tag) + 4
		if x+w > pageMargin+r.width {
			pdf.Ln(6)
			x = pageMargin
		}
		pdf.SetX(x)
		pdf.CellFormat(w, 5, tag, "", 0, "C", true, 0, "")
		x += w + 2
	}
	pdf.Ln(7)
}

func (r *studentReport) priceQuotes() {
	quotes := r.student.PriceQuotes
	r.sectionTitle(fmt.Sprintf("Fiyat Teklifleri (%d Teklif)", len(quotes)))

	pdf := r.pdf
	if len(quotes) == 0 {
		r.font("I", 9, colorMuted)
		pdf.CellFormat(r.width, 10, "Henüz fiyat teklifi bulunmamaktadır.", "", 1, "C", false, 0, "")
		return
	}

	for _, q := range quotes {
		r.quote(q)
	}
}

func (r *studentReport) quote(q models.PriceQuote) {
	pdf := r.pdf
	pdf.SetDrawColor(colorBorder.r, colorBorder.g, colorBorder.b)

	r.font("B", 11, colorText)
	pdf.CellFormat(r.width*0.7, 6, q.CourseLevel, "LT", 0, "L", false, 0, "")
	r.font("", 8, colorMuted)
	pdf.CellFormat(r.width*0.3, 6, ShortDate(q.CreatedAt), "RT", 1, "R", false, 0, "")
	r.font("", 9, colorMuted)
	pdf.CellFormat(r.width, 5, q.CourseDuration, "LR", 1, "L", false, 0, "")

	r.font("B", 11, colorPriceFg)
	pdf.SetFillColor(colorPrice.r, colorPrice.g, colorPrice.b)
	pdf.CellFormat(r.width, 8, "Son Fiyat: "+Money(q.FinalPrice, pdfCurrency), "LR", 1, "C", true, 0, "")

	details := [][2]string{{"Ödeme Türü", q.PaymentType.Label()}}
	if q.CashPrice > 0 {
		details = append(details, [2]string{"Peşin Fiyat", Money(q.CashPrice, pdfCurrency)})
	}
	if q.InstallmentPrice > 0 {
		details = append(details, [2]string{"Taksitli Fiyat", Money(q.InstallmentPrice, pdfCurrency)})
	}
	if q.PaymentType == models.PaymentInstallment && q.InstallmentCount > 0 {
		details = append(details, [2]string{"Taksit Sayısı", fmt.Sprintf("%d Ay", q.InstallmentCount)})
	}
	if q.PaymentType == models.PaymentInstallment && q.InstallmentAmount > 0 {
		details = append(details, [2]string{"Aylık Taksit", Money(q.InstallmentAmount, pdfCurrency)})
	}

	colWidth := r.width / 2
	for i := 0; i < len(details); i += 2 {
		for col := 0; col < 2; col++ {
			border := "L"
			ln := 0
			if col == 1 {
				border = "R"
				ln = 1
			}
			text := ""
			if i+col < len(details) {
				text = details[i+col][0] + ": " + details[i+col][1]
			}
			r.font("", 8.5, colorMuted)
			pdf.CellFormat(colWidth, lineHeight, text, border, ln, "L", false, 0, "")
		}
	}
	if q.Discount > 0 {
		r.font("B", 8.5, colorRed)
		pdf.CellFormat(r.width, lineHeight, "İndirim: -"+Money(q.Discount, pdfCurrency), "LR", 1, "L", false, 0, "")
	}
	if q.Notes != "" {
		r.font("", 8.5, colorText)
		pdf.MultiCell(r.width, 4.5, "Teklif Notları: "+q.Notes, "LR", "L", false)
	}
	if q.IsAccepted {
		r.font("B", 9, colorGreen)
		pdf.CellFormat(r.width, 6, "Bu teklif kabul edilmiştir", "LR", 1, "L", false, 0, "")
	}
	pdf.CellFormat(r.width, 2, "", "LRB", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func (r *studentReport) footer(school config.SchoolProfile, now time.Time) {
	pdf := r.pdf
	pdf.SetY(-18)
	pdf.SetDrawColor(colorBorder.r, colorBorder.g, colorBorder.b)
	y := pdf.GetY()
	pdf.Line(pageMargin, y, pageMargin+r.width, y)
	pdf.Ln(2)
	r.font("", 7, colorMuted)
	pdf.CellFormat(r.width, 3.5, fmt.Sprintf("Bu rapor %s tarihinde oluşturulmuştur.", LongDateTime(now)), "", 1, "C", false, 0, "")
	pdf.CellFormat(r.width, 3.5, school.Name+" - Öğrenci Takip Sistemi", "", 1, "C", false, 0, "")
}
