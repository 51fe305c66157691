package models

import (
	"strings"
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		raw     string
		want    Kind
		wantErr bool
	}{
		{"text", KindText, false},
		{" Image ", KindImage, false},
		{"FILE", KindFile, false},
		{"", "", true},
		{"url", "", true},
	}

	for _, tc := range cases {
		got, err := ParseKind(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseKind(%q): expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKind(%q): %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseKind(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestRecordValidate(t *testing.T) {
	now := time.Now().UTC()
	valid := ClipRecord{ID: "cl-ab12", Kind: KindText, CreatedAt: now, BlobRef: "cl-ab12.txt"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid record: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*ClipRecord)
	}{
		{"missing id", func(r *ClipRecord) { r.ID = "" }},
		{"bad kind", func(r *ClipRecord) { r.Kind = "url" }},
		{"missing blob ref", func(r *ClipRecord) { r.BlobRef = " " }},
		{"zero timestamp", func(r *ClipRecord) { r.CreatedAt = time.Time{} }},
		{"preview on image", func(r *ClipRecord) { r.Kind = KindImage; r.Preview = "x" }},
		{"filename on text", func(r *ClipRecord) { r.FileName = "a.txt" }},
	}

	for _, tc := range cases {
		record := valid
		tc.mutate(&record)
		if err := record.Validate(); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestDerivePreview(t *testing.T) {
	if got := DerivePreview("  hello\nworld  "); got != "hello world" {
		t.Errorf("expected collapsed preview, got %q", got)
	}

	long := strings.Repeat("é", PreviewMaxRunes+20)
	got := DerivePreview(long)
	if runes := len([]rune(got)); runes != PreviewMaxRunes {
		t.Errorf("expected %d runes, got %d", PreviewMaxRunes, runes)
	}
}

func TestSortRecordsOrdering(t *testing.T) {
	base := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	records := []ClipRecord{
		{ID: "cl-c", Kind: KindText, CreatedAt: base.Add(3 * time.Second), BlobRef: "c"},
		{ID: "cl-b", Kind: KindText, CreatedAt: base.Add(2 * time.Second), BlobRef: "b", Pinned: true},
		{ID: "cl-a", Kind: KindText, CreatedAt: base.Add(1 * time.Second), BlobRef: "a"},
		{ID: "cl-d", Kind: KindText, CreatedAt: base.Add(4 * time.Second), BlobRef: "d", Pinned: true},
	}

	SortRecords(records)

	wantOrder := []string{"cl-d", "cl-b", "cl-c", "cl-a"}
	for i, id := range wantOrder {
		if records[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, records[i].ID, id)
		}
	}
}

func TestSortRecordsStableOnEqualTimestamps(t *testing.T) {
	at := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	records := []ClipRecord{
		{ID: "cl-newer", Kind: KindText, CreatedAt: at, BlobRef: "n"},
		{ID: "cl-older", Kind: KindText, CreatedAt: at, BlobRef: "o"},
	}

	SortRecords(records)

	if records[0].ID != "cl-newer" || records[1].ID != "cl-older" {
		t.Fatalf("expected insertion order preserved, got %s, %s", records[0].ID, records[1].ID)
	}
}
