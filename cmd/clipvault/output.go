package main

import (
	"fmt"
	"os"
	"time"

	"clipvault/internal/format"
	"clipvault/internal/models"
)

var outputFormatter format.Formatter = format.JSONFormatter{}

func writeJSON(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeRecordList(records []models.ClipRecord) error {
	for _, record := range records {
		if err := writePlain("%s\n", formatRecordLine(record)); err != nil {
			return err
		}
	}
	return nil
}

func formatRecordLine(record models.ClipRecord) string {
	marker := " "
	if record.Pinned {
		marker = "*"
	}
	return fmt.Sprintf("%s %s  %-5s  %s  %s",
		marker, record.ID, record.Kind, formatTime(record.CreatedAt), recordLabel(record))
}

func recordLabel(record models.ClipRecord) string {
	switch record.Kind {
	case models.KindText:
		return record.Preview
	case models.KindFile:
		return record.FileName
	default:
		return record.BlobRef
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
