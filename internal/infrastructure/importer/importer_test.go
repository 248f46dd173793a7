package importer

import (
	"strings"
	"testing"

	"github.com/skulkarni-ml/supportdesk/internal/core/domain"
)

func TestReadCSVParsesRows(t *testing.T) {
	src := strings.Join([]string{
		"id,topic_name,description,overall_sentiment,solution",
		"1,billing,double charge on invoice,negative,issued refund",
		"2,network,slow speeds at night,neutral,reset the router",
	}, "\n")

	records, err := ReadCSV(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	want := domain.CaseRecord{
		ID:          "1",
		Topic:       "billing",
		Description: "double charge on invoice",
		Sentiment:   "negative",
		Solution:    "issued refund",
	}
	if records[0] != want {
		t.Fatalf("unexpected first record %+v", records[0])
	}
}

func TestReadCSVRejectsMissingSolutionColumn(t *testing.T) {
	src := strings.Join([]string{
		"id,topic_name,description,overall_sentiment",
		"1,billing,double charge,negative",
	}, "\n")

	records, err := ReadCSV(strings.NewReader(src))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "solution") {
		t.Fatalf("expected missing column named in error, got %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected zero records on validation failure, got %d", len(records))
	}
}

func TestReadCSVToleratesShortRows(t *testing.T) {
	src := strings.Join([]string{
		"id,topic_name,description,overall_sentiment,solution",
		"1,billing,short row,negative",
	}, "\n")

	records, err := ReadCSV(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Solution != "" {
		t.Fatalf("expected empty solution for short row, got %q", records[0].Solution)
	}
}

func TestColumnIndexIsCaseInsensitive(t *testing.T) {
	src := strings.Join([]string{
		"ID,Topic_Name,Description,Overall_Sentiment,Solution",
		"7,roaming,charges abroad,negative,enable travel pack",
	}, "\n")

	records, err := ReadCSV(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if records[0].ID != "7" || records[0].Topic != "roaming" {
		t.Fatalf("unexpected record %+v", records[0])
	}
}
