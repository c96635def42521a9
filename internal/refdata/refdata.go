// Package refdata holds the static reference inputs of the triage engine:
// the red-flag and moderate-severity phrase lists, the local-outbreak table
// and the fixed prompt texts. The engine treats all of it as read-only
// configuration. Compiled-in defaults can be partially overridden from a
// YAML file for deployments tracking different surveillance regions.
package refdata

import (
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"

	"healthguard/pkg"
)

// RuleSet bundles every reference input of one engine instance.
type RuleSet struct {
	RedFlags         []string
	ModerateKeywords []string
	Outbreaks        []pkg.OutbreakRecord
	SystemPrompt     string
	Greeting         string
	EmergencyWarning string
	Apology          string
}

// Default returns the compiled-in rule set.
func Default() *RuleSet {
	return &RuleSet{
		RedFlags:         defaultRedFlags(),
		ModerateKeywords: defaultModerateKeywords(),
		Outbreaks:        defaultOutbreaks(),
		SystemPrompt:     SystemPrompt,
		Greeting:         Greeting,
		EmergencyWarning: EmergencyWarning,
		Apology:          Apology,
	}
}

// defaultRedFlags lists life-threatening symptom phrases. Matching is by
// lower-cased containment, so phrases must stay lower case and favor recall:
// a false positive costs an unnecessary warning, a false negative costs far
// more.
func defaultRedFlags() []string {
	return []string{
		"chest pain",
		"crushing pain",
		"can't breathe",
		"cannot breathe",
		"difficulty breathing",
		"shortness of breath",
		"severe bleeding",
		"bleeding heavily",
		"coughing blood",
		"vomiting blood",
		"loss of consciousness",
		"unconscious",
		"passed out",
		"suicidal",
		"suicide",
		"stroke",
		"slurred speech",
		"face drooping",
		"seizure",
	}
}

func defaultModerateKeywords() []string {
	return []string{
		"severe",
		"worsening",
		"high fever",
		"weeks",
		"chronic",
		"unbearable",
	}
}

func defaultOutbreaks() []pkg.OutbreakRecord {
	return []pkg.OutbreakRecord{
		{City: "Delhi", DiseaseName: "Dengue Fever", RiskLevel: pkg.RiskHigh, ActiveCases: 1240, Trend: pkg.TrendRising},
		{City: "Mumbai", DiseaseName: "Influenza (H3N2)", RiskLevel: pkg.RiskModerate, ActiveCases: 860, Trend: pkg.TrendStable},
		{City: "Bengaluru", DiseaseName: "Viral Conjunctivitis", RiskLevel: pkg.RiskLow, ActiveCases: 310, Trend: pkg.TrendFalling},
		{City: "Chennai", DiseaseName: "Malaria", RiskLevel: pkg.RiskModerate, ActiveCases: 540, Trend: pkg.TrendRising},
		{City: "Kolkata", DiseaseName: "Typhoid", RiskLevel: pkg.RiskLow, ActiveCases: 150, Trend: pkg.TrendFalling},
	}
}

// ruleFile is the YAML schema of an override file. Absent sections keep the
// compiled-in defaults.
type ruleFile struct {
	RedFlags         []string       `yaml:"red_flags"`
	ModerateKeywords []string       `yaml:"moderate_keywords"`
	Outbreaks        []outbreakYAML `yaml:"outbreaks"`
	SystemPrompt     string         `yaml:"system_prompt"`
	Greeting         string         `yaml:"greeting"`
	EmergencyWarning string         `yaml:"emergency_warning"`
	Apology          string         `yaml:"apology"`
}

type outbreakYAML struct {
	City        string `yaml:"city"`
	DiseaseName string `yaml:"disease_name"`
	RiskLevel   string `yaml:"risk_level"`
	ActiveCases int    `yaml:"active_cases"`
	Trend       string `yaml:"trend"`
}

// Load reads a YAML override file and overlays it on the defaults. Phrase
// lists are normalized to lower case so classification stays case-insensitive
// regardless of how the file was authored.
func Load(path string) (*RuleSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read reference data file", goerr.V("path", path))
	}

	var file ruleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse reference data file", goerr.V("path", path))
	}

	rules := Default()
	if len(file.RedFlags) > 0 {
		rules.RedFlags = lowerAll(file.RedFlags)
	}
	if len(file.ModerateKeywords) > 0 {
		rules.ModerateKeywords = lowerAll(file.ModerateKeywords)
	}
	if len(file.Outbreaks) > 0 {
		records := make([]pkg.OutbreakRecord, 0, len(file.Outbreaks))
		for _, o := range file.Outbreaks {
			records = append(records, pkg.OutbreakRecord{
				City:        o.City,
				DiseaseName: o.DiseaseName,
				RiskLevel:   pkg.RiskLevel(o.RiskLevel),
				ActiveCases: o.ActiveCases,
				Trend:       pkg.Trend(o.Trend),
			})
		}
		rules.Outbreaks = records
	}
	if file.SystemPrompt != "" {
		rules.SystemPrompt = file.SystemPrompt
	}
	if file.Greeting != "" {
		rules.Greeting = file.Greeting
	}
	if file.EmergencyWarning != "" {
		rules.EmergencyWarning = file.EmergencyWarning
	}
	if file.Apology != "" {
		rules.Apology = file.Apology
	}

	return rules, nil
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.ToLower(s))
		}
	}
	return out
}
