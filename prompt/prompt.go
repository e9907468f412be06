// Package prompt assembles natural-language instructions from form state.
//
// Builders are pure and never fail: missing fields render as empty
// placeholders. Values are embedded verbatim since the prompt goes to the
// generation service, not a viewer.
package prompt

import "fmt"

// FormState is a snapshot of form field values keyed by field identifier.
type FormState map[string]string

// Get returns the field value or an empty placeholder.
func (f FormState) Get(field string) string {
	return f[field]
}

// CollegeMatch builds the reach/target/safety matching prompt from gpa,
// interests, major, year and scores fields.
func CollegeMatch(form FormState) string {
	return fmt.Sprintf(`
Generate realistic college reach, target, and safety matches based on:

GPA: %s
Interests: %s
Major: %s
Year: %s
Test Scores: %s

Include:
- 3 reach, 3 target, 3 safety schools
- 1 sentence per school explaining why it matches
- Tuition estimate placeholder
- Location
`, form.Get("gpa"), form.Get("interests"), form.Get("major"), form.Get("year"), form.Get("scores"))
}

// FourYearPlan builds the high school planning prompt.
func FourYearPlan(FormState) string {
	return `
Create a personalized 4-year high school plan including:
- Recommended courses
- AP/Honors suggestions
- Extracurricular ideas
- College application timeline
- Skill development milestones
`
}

// EssayFeedback builds the essay improvement prompt from the essay field.
func EssayFeedback(form FormState) string {
	return fmt.Sprintf(`
Improve this essay WITHOUT rewriting it. Provide:
- Stronger wording suggestions
- Tone improvements
- Structure tips
- What to add or remove

Essay:
%s
`, form.Get("essay"))
}

// ResumeTips builds the resume review prompt from the resume field.
func ResumeTips(form FormState) string {
	return fmt.Sprintf(`
Review this high school resume and provide:
- Formatting and ordering tips
- Stronger action verbs for each bullet
- What admissions officers look for
- What to add or remove

Resume:
%s
`, form.Get("resume"))
}

// InterviewQuestion builds the question prompt; it takes no fields.
func InterviewQuestion(FormState) string {
	return "Ask a realistic college interview question."
}

// InterviewFeedback builds the answer critique prompt from the answer
// field.
func InterviewFeedback(form FormState) string {
	return fmt.Sprintf(`
Provide constructive feedback on this college interview answer:

%s
`, form.Get("answer"))
}

// GPAAnalysis builds the GPA calculation prompt from the grades field. The
// response is expected to label its figures (e.g. "Unweighted GPA"), which
// the history auto-capture keys on.
func GPAAnalysis(form FormState) string {
	return fmt.Sprintf(`
Calculate GPA from these courses and grades:

%s

Include:
- Unweighted GPA on a 4.0 scale
- Weighted GPA accounting for AP/Honors courses
- A one-line summary of the trend
`, form.Get("grades"))
}
