package triage_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"healthguard/internal/triage"
	"healthguard/pkg"
)

func TestBuildContext_Empty(t *testing.T) {
	state := triage.NewSessionState()
	got := triage.BuildContext(state, pkg.RiskAssessment{Level: pkg.RiskLow}, pkg.RiskLow, nil)
	gt.Equal(t, got, "")
}

func TestBuildContext_PatientDetails(t *testing.T) {
	state := triage.NewSessionState()
	state.Age = "25"

	got := triage.BuildContext(state, pkg.RiskAssessment{Level: pkg.RiskLow}, pkg.RiskLow, nil)
	gt.Equal(t, got, "Patient details: age 25, gender unknown.")

	state.Gender = pkg.GenderMale
	got = triage.BuildContext(state, pkg.RiskAssessment{Level: pkg.RiskLow}, pkg.RiskLow, nil)
	gt.Equal(t, got, "Patient details: age 25, gender Male.")
}

func TestBuildContext_SafetyClause(t *testing.T) {
	state := triage.NewSessionState()
	state.RiskLevel = pkg.RiskHigh
	assessment := pkg.RiskAssessment{
		Level:         pkg.RiskHigh,
		DetectedFlags: []string{"chest pain", "can't breathe"},
	}

	got := triage.BuildContext(state, assessment, pkg.RiskHigh, nil)
	gt.S(t, got).Contains("URGENT")
	gt.S(t, got).Contains("chest pain, can't breathe")
	gt.S(t, got).Contains("false reassurance")

	// High suppresses the moderate clause.
	gt.False(t, strings.Contains(got, "duration and severity"))
}

func TestBuildContext_ModerateClause(t *testing.T) {
	state := triage.NewSessionState()
	state.RiskLevel = pkg.RiskModerate

	got := triage.BuildContext(state, pkg.RiskAssessment{Level: pkg.RiskModerate}, pkg.RiskModerate, nil)
	gt.S(t, got).Contains("duration and severity")
	gt.False(t, strings.Contains(got, "URGENT"))
}

func TestBuildContext_OutbreakClause(t *testing.T) {
	state := triage.NewSessionState()
	outbreak := &pkg.OutbreakRecord{
		City:        "Delhi",
		DiseaseName: "Dengue Fever",
		RiskLevel:   pkg.RiskHigh,
		ActiveCases: 1240,
		Trend:       pkg.TrendRising,
	}

	got := triage.BuildContext(state, pkg.RiskAssessment{Level: pkg.RiskLow}, pkg.RiskLow, outbreak)
	gt.S(t, got).Contains("Delhi")
	gt.S(t, got).Contains("Dengue Fever")
	gt.S(t, got).Contains("rising")
}

func TestBuildContext_ClauseOrder(t *testing.T) {
	state := triage.NewSessionState()
	state.Age = "40"
	state.Gender = pkg.GenderFemale
	state.RiskLevel = pkg.RiskHigh
	assessment := pkg.RiskAssessment{Level: pkg.RiskHigh, DetectedFlags: []string{"stroke"}}
	outbreak := &pkg.OutbreakRecord{
		City: "Mumbai", DiseaseName: "Influenza (H3N2)",
		RiskLevel: pkg.RiskModerate, ActiveCases: 860, Trend: pkg.TrendStable,
	}

	got := triage.BuildContext(state, assessment, pkg.RiskHigh, outbreak)

	details := strings.Index(got, "Patient details")
	urgent := strings.Index(got, "URGENT")
	local := strings.Index(got, "Local surveillance")
	gt.True(t, details >= 0)
	gt.True(t, urgent > details)
	gt.True(t, local > urgent)
}

func TestWrapContext(t *testing.T) {
	gt.Equal(t, triage.WrapContext("", "hello"), "hello")

	wrapped := triage.WrapContext("Patient details: age 25, gender Male.", "hello")
	gt.S(t, wrapped).Contains("[SYSTEM CONTEXT: Patient details: age 25, gender Male.]")
	gt.S(t, wrapped).Contains("hello")
	gt.True(t, strings.HasPrefix(wrapped, "[SYSTEM CONTEXT: "))
}
