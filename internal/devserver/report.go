package devserver

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/attendance/internal/client/models"
)

type reportRow struct {
	Student models.Identity
	models.CourseAttendance
}

func renderCSV(rows []reportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"roll_number", "name", "email", "attended", "total", "percentage", "shortage"})
	for _, r := range rows {
		_ = w.Write([]string{
			r.Student.RollNumber,
			r.Student.FullName,
			r.Student.Email,
			strconv.Itoa(r.Attended),
			strconv.Itoa(r.Total),
			strconv.FormatFloat(r.Percentage, 'f', 2, 64),
			strconv.FormatBool(r.Shortage),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// renderPDF writes a single-page PDF listing the rows in a monospace font.
func renderPDF(c *models.Course, rows []reportRow) []byte {
	lines := []string{fmt.Sprintf("Attendance report: %s %s", c.Code, c.Name), ""}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%-10s %-24s %3d/%-3d %6.2f%%%s",
			r.Student.RollNumber, r.Student.FullName, r.Attended, r.Total, r.Percentage, shortageMark(r.Shortage)))
	}

	var content strings.Builder
	content.WriteString("BT /F1 11 Tf 50 790 Td 14 TL\n")
	for _, l := range lines {
		fmt.Fprintf(&content, "(%s) Tj T*\n", pdfEscape(l))
	}
	content.WriteString("ET")

	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Courier >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func shortageMark(short bool) string {
	if short {
		return "  SHORTAGE"
	}
	return ""
}

func pdfEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
