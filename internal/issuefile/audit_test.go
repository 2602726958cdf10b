package issuefile

import (
	"reflect"
	"testing"

	"github.com/triagelab/ai-triage/pkg/models"
)

func TestAuditCounts(t *testing.T) {
	issues := []*models.IssueReference{
		{
			IssueID:     "TRI-1",
			Title:       "Login crashes after submitting the form",
			Description: "The login form crashes whenever the submit button is pressed on a mobile device.",
			Status:      "open",
		},
		{
			IssueID:     "TRI-2",
			Title:       "Export job hangs forever on large projects",
			Description: DefaultDescription,
			Status:      "closed",
		},
		{
			IssueID:     "TRI-1",
			Title:       "Login crash happens again on other browsers",
			Description: "Pressing the login submit button also crashes the page in several desktop browsers.",
			Status:      "open",
		},
		{
			IssueID:     "TRI-1",
			Title:       "Login crash reported a third time",
			Description: "Yet another report of the login page crashing when the form is submitted quickly.",
			Status:      "open",
		},
	}

	report := Audit(issues)

	if report.Total != 4 {
		t.Errorf("Total = %d, want 4", report.Total)
	}
	wantStatus := map[string]int{"open": 3, "closed": 1}
	if !reflect.DeepEqual(report.ByStatus, wantStatus) {
		t.Errorf("ByStatus = %v, want %v", report.ByStatus, wantStatus)
	}
	if report.MissingDescriptions != 1 {
		t.Errorf("MissingDescriptions = %d, want 1", report.MissingDescriptions)
	}
	if !reflect.DeepEqual(report.DuplicateIDs, []string{"TRI-1"}) {
		t.Errorf("DuplicateIDs = %v, want the id flagged once", report.DuplicateIDs)
	}
	if len(report.NonEnglish) != 0 {
		t.Errorf("NonEnglish = %v, want none", report.NonEnglish)
	}
	if report.Clean() {
		t.Error("Clean() = true for a corpus with problems")
	}
}

func TestAuditFlagsNonEnglish(t *testing.T) {
	issues := []*models.IssueReference{
		{
			IssueID:     "EN-1",
			Title:       "Application crashes when opening the settings page",
			Description: "The application crashes immediately after tapping the settings icon, and it happens on every attempt.",
			Status:      "open",
		},
		{
			IssueID:     "ES-1",
			Title:       "La página de inicio no carga después de actualizar",
			Description: "Después de actualizar la aplicación, la página de inicio se queda en blanco y nunca termina de cargar los elementos.",
			Status:      "open",
		},
	}

	report := Audit(issues)

	if !reflect.DeepEqual(report.NonEnglish, []string{"ES-1"}) {
		t.Errorf("NonEnglish = %v, want only the Spanish record", report.NonEnglish)
	}
	if report.Clean() {
		t.Error("Clean() = true for a corpus with a non-English record")
	}
}

func TestAuditShortTextPasses(t *testing.T) {
	issues := []*models.IssueReference{
		{IssueID: "T-1", Title: "Ok", Description: "Si", Status: "open"},
	}

	report := Audit(issues)

	if len(report.NonEnglish) != 0 {
		t.Errorf("NonEnglish = %v, want short fragments to pass", report.NonEnglish)
	}
	if !report.Clean() {
		t.Errorf("Clean() = false, report = %+v", report)
	}
}

func TestAuditCleanCorpus(t *testing.T) {
	report := Audit(SampleIssues())

	if report.Total != 5 {
		t.Errorf("Total = %d, want 5", report.Total)
	}
	if report.ByStatus["open"] != 4 || report.ByStatus["closed"] != 1 {
		t.Errorf("ByStatus = %v", report.ByStatus)
	}
	if !report.Clean() {
		t.Errorf("Clean() = false for the sample corpus, report = %+v", report)
	}
}
