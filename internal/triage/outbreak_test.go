package triage_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"healthguard/internal/refdata"
	"healthguard/internal/triage"
	"healthguard/pkg"
)

func TestMatchOutbreak(t *testing.T) {
	table := refdata.Default().Outbreaks

	rec := triage.MatchOutbreak(table, "I live in Delhi and have had a fever since Monday")
	gt.NotNil(t, rec)
	gt.Equal(t, rec.City, "Delhi")
	gt.Equal(t, rec.DiseaseName, "Dengue Fever")

	// City matching is case-insensitive.
	rec = triage.MatchOutbreak(table, "just got back to delhi")
	gt.NotNil(t, rec)
	gt.Equal(t, rec.DiseaseName, "Dengue Fever")
}

func TestMatchOutbreak_NoCity(t *testing.T) {
	table := refdata.Default().Outbreaks
	gt.Nil(t, triage.MatchOutbreak(table, "I have a sore throat"))
}

func TestMatchOutbreak_TableOrder(t *testing.T) {
	table := []pkg.OutbreakRecord{
		{City: "Mumbai", DiseaseName: "Influenza (H3N2)", RiskLevel: pkg.RiskModerate, ActiveCases: 860, Trend: pkg.TrendStable},
		{City: "Delhi", DiseaseName: "Dengue Fever", RiskLevel: pkg.RiskHigh, ActiveCases: 1240, Trend: pkg.TrendRising},
	}

	// The first matching record in table order wins, regardless of where
	// each city appears in the text.
	rec := triage.MatchOutbreak(table, "flying from Delhi to Mumbai tomorrow")
	gt.NotNil(t, rec)
	gt.Equal(t, rec.City, "Mumbai")
}

func TestMatchOutbreak_ReturnsCopy(t *testing.T) {
	table := refdata.Default().Outbreaks

	rec := triage.MatchOutbreak(table, "symptoms started in Chennai")
	gt.NotNil(t, rec)
	rec.ActiveCases = 0

	gt.Equal(t, refdata.Default().Outbreaks[3].ActiveCases, 540)
}
