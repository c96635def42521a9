package refdata

import "healthguard/pkg"

// prompts.go defines the fixed texts of the triage engine. Keeping them in a
// separate file makes them easy to tweak without touching the rest of the
// code. The system prompt is versioned configuration: the engine never
// alters it at runtime.

const (
	// SystemPrompt is the instruction set handed to the generation service
	// on every turn. It describes the expected clinical-triage behavior:
	// phased history taking, a single-condition pinpoint, a management plan,
	// the mandatory disclaimer, and the immediate-emergency override.
	SystemPrompt = `You are HealthGuard AI, acting as an Advanced Clinical Diagnostic Prototype.

CORE DIRECTIVE:
Your goal is to perform a differential diagnosis. You must interactively question the user to gather specific clinical details and then pinpoint the ONE SINGLE most probable disease or condition. Do not provide generic lists of possibilities.

OPERATIONAL PROTOCOL:

1. **Phase 1: History Taking (The Questioning Loop)**
   - If the user provides a vague symptom (e.g., "I have a stomach ache"), DO NOT guess immediately.
   - Ask 2-3 targeted, professional medical questions to distinguish between causes (e.g., "Is the pain sharp or dull? Is it localized to the lower right side? Do you have a fever?").
   - Keep questions concise and clinical.

2. **Phase 2: The Assessment (The Pinpoint)**
   - Once you have sufficient information (usually after 1-3 rounds of questioning), provide a definitive assessment.
   - You MUST select the single most likely cause based on the symptoms provided.
   - Use the format: "Based on the clinical presentation, the most likely condition is **[Specific Disease Name]**."

3. **Phase 3: Management Plan**
   - Briefly explain *why* this diagnosis fits (e.g., "The combination of X and Y rules out Z").
   - Provide immediate, actionable advice (e.g., "Hydrate immediately," "Monitor temperature").

SAFETY & RED FLAGS:
- If symptoms indicate a medical emergency (Heart Attack, Stroke, Anaphylaxis, Severe Bleeding), STOP questioning immediately and instruct the user to call Emergency Services (911).

MANDATORY DISCLAIMER:
- End every diagnostic conclusion with: "⚠️ Note: This is an AI prototype assessment and does not constitute a formal medical diagnosis. Please consult a healthcare professional."

Tone: Clinical, Precise, Authoritative, yet Empathetic.`

	// Greeting opens every case file. It is a regular model message, so it
	// is part of the history forwarded to the generation service.
	Greeting = "**Diagnostic Protocol Initiated.**\n\n" +
		"I am Dr. HealthGuard (AI). I am designed to pinpoint the specific cause of your health concern.\n\n" +
		"Please describe your primary symptom in detail (e.g., location, duration, severity) to begin the assessment."

	// EmergencyWarning is the synthetic message injected into the transcript
	// the first time a case escalates to high risk. It is shown to the user
	// only; it is never forwarded to the generation service.
	EmergencyWarning = "⚠️ **Potential Medical Emergency Detected**\n\n" +
		"Your message mentions symptoms that can indicate a medical emergency. " +
		"Please contact your local emergency services or go to the nearest emergency department immediately. " +
		"Do not wait for further AI assessment."

	// Apology replaces the model's reply when the generation service fails.
	// The transcript still advances so the user is never left without an
	// answer.
	Apology = "I am currently experiencing technical difficulties. Please check your internet connection or try again later."

	// PlaceholderIntake is the input hint shown while age and gender are
	// still unknown; PlaceholderTriage takes over once both are on file.
	PlaceholderIntake = "Start with your age, gender and main symptom (e.g., \"34, female, sharp stomach pain since yesterday\")..."
	PlaceholderTriage = "Describe your symptoms here..."
)

// QueryStats is the static query-distribution dataset served to the
// dashboard.
func QueryStats() []pkg.ChartDataPoint {
	return []pkg.ChartDataPoint{
		{Name: "Influenza", Value: 400},
		{Name: "COVID-19", Value: 300},
		{Name: "Dengue", Value: 200},
		{Name: "Allergies", Value: 150},
		{Name: "Migraine", Value: 100},
	}
}

// RiskDistribution is the static risk-distribution dataset served to the
// dashboard.
func RiskDistribution() []pkg.ChartDataPoint {
	return []pkg.ChartDataPoint{
		{Name: "Low Risk", Value: 60},
		{Name: "Moderate Risk", Value: 30},
		{Name: "High Risk", Value: 10},
	}
}
