package domain

import (
	"strconv"
	"strings"
)

// DocumentVerification is the OCR result of /api/ocr/verify-document.
type DocumentVerification struct {
	ExtractedText string `json:"extracted_text"`
}

// CarDraft holds the listing fields recoverable from a registration book scan.
type CarDraft struct {
	Brand    string `json:"brand,omitempty"`
	Model    string `json:"model,omitempty"`
	Year     *int   `json:"year,omitempty"`
	Color    string `json:"color,omitempty"`
	Province string `json:"province,omitempty"`
	Seats    *int   `json:"seats,omitempty"`
	FuelType string `json:"fuelType,omitempty"`
}

// ParseDocumentText reads "key: value" lines produced by the OCR service.
// Unknown keys and unparsable numbers are skipped.
func ParseDocumentText(text string) CarDraft {
	var d CarDraft
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		switch key {
		case "brand_car":
			d.Brand = value
		case "model":
			d.Model = value
		case "year_model":
			d.Year = atoiPtr(value)
		case "color":
			d.Color = value
		case "province":
			d.Province = value
		case "number_of_seat":
			d.Seats = atoiPtr(value)
		case "fuel_type_name":
			d.FuelType = value
		}
	}
	return d
}

func atoiPtr(s string) *int {
	digits := s
	if i := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }); i >= 0 {
		digits = s[:i]
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &n
}
