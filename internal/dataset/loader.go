package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mikey/phishing-detector/internal/core"
)

// LoadCSV reads a labeled email corpus from a CSV file. The first row must
// be a header naming at least "subject" or "body" plus a "label" column;
// extra columns are ignored. Labels "1", "phish", "phishing" and "spam"
// (case-insensitive) map to 1, everything else to 0.
func LoadCSV(path string) ([]core.LabeledEmail, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}
	subjectCol, bodyCol, labelCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "subject":
			subjectCol = i
		case "body", "text", "message":
			bodyCol = i
		case "label", "is_phishing", "class":
			labelCol = i
		}
	}
	if labelCol < 0 || (subjectCol < 0 && bodyCol < 0) {
		return nil, fmt.Errorf("dataset header must name a label column and a subject or body column, got %v", header)
	}

	var corpus []core.LabeledEmail
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset row %d: %w", line, err)
		}

		var email core.LabeledEmail
		if subjectCol >= 0 && subjectCol < len(record) {
			email.Subject = record[subjectCol]
		}
		if bodyCol >= 0 && bodyCol < len(record) {
			email.Body = record[bodyCol]
		}
		if labelCol >= len(record) {
			return nil, fmt.Errorf("dataset row %d is missing the label column", line)
		}
		email.Label = parseLabel(record[labelCol])
		corpus = append(corpus, email)
	}
	if len(corpus) == 0 {
		return nil, fmt.Errorf("dataset %s contains no rows", path)
	}
	return corpus, nil
}

func parseLabel(raw string) int {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "phish", "phishing", "spam":
		return 1
	default:
		return 0
	}
}
