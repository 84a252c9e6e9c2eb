package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/resume-screener/internal/models"
)

// ResponseFormat is appended to every rubric. NormalizeJudgeOutput depends on
// these exact line labels.
const ResponseFormat = `--- Response Format ---
Match %: XX%
Pros:
- ...
Cons:
- ...
Decision: ✅ Shortlist or ❌ Reject
Reason (if Rejected): ...`

const rubricFooter = "Note: Everything should match the Job Description."

// EvaluationTemplate is the fixed rubric for one role/level pair.
type EvaluationTemplate struct {
	Role     models.RoleCategory
	Level    models.SeniorityLevel
	Title    string
	Criteria []string
}

// Render interpolates the job description and resume text into the template.
func (t EvaluationTemplate) Render(jobDescription, resumeText string) string {
	article := "a"
	if strings.ContainsAny(t.Title[:1], "AEIOU") {
		article = "an"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional HR assistant AI screening resumes for %s **%s** role.\n\n", article, t.Title)
	b.WriteString("--- Job Description ---\n")
	b.WriteString(strings.TrimSpace(jobDescription))
	b.WriteString("\n\n--- Candidate Resume ---\n")
	b.WriteString(strings.TrimSpace(resumeText))
	b.WriteString("\n\n--- Screening Criteria ---\n")
	for i, criterion := range t.Criteria {
		fmt.Fprintf(&b, "%d. %s\n", i+1, criterion)
	}
	b.WriteString("\n")
	b.WriteString(rubricFooter)
	b.WriteString("\n\n")
	b.WriteString(ResponseFormat)
	b.WriteString("\n")
	return b.String()
}

type templateKey struct {
	role  models.RoleCategory
	level models.SeniorityLevel
}

// Sales-Support has no rubric yet; lookups for it report ErrTemplateNotFound.
var evaluationTemplates = map[templateKey]EvaluationTemplate{
	{models.RoleSales, models.LevelFresher}: {
		Title: "Sales Fresher",
		Criteria: []string{
			"Location: Must be strictly local.",
			"Age: As per job description.",
			"Education: 12th pass & above.",
			"Gender: As per job description.",
		},
	},
	{models.RoleSales, models.LevelExperienced}: {
		Title: "Sales Experienced",
		Criteria: []string{
			"Location: Must be strictly local.",
			`Age: As per job description ("up to" logic preferred).`,
			"Total Experience: Add all types of sales (health + motor, etc.).",
			"Relevant Experience: Must match industry (strict).",
			"Education: 12th pass & above accepted.",
			"Gender: As per job description.",
			"Skills: Skills should align with relevant experience.",
			"Stability: Ignore if 1 job <1 year; Reject if 2+ jobs each <1 year.",
		},
	},
	{models.RoleIT, models.LevelFresher}: {
		Title: "IT Fresher",
		Criteria: []string{
			"Location: Must be local.",
			"Age: Ignore or as per JD.",
			"Experience: Internship is a bonus; no experience is fine.",
			"Projects: Highlighted as experience if relevant.",
			"Education: B.E, M.E, BTech, MTech, or equivalent in IT.",
			"Gender: As per job description.",
			"Skills: Must align with the job field (e.g., Full Stack).\n" +
				"Note: For example, if hiring for a Full Stack Engineer role, even if one or two skills mentioned in the " +
				"Job Description are missing, the candidate can still be considered if they have successfully built Full Stack " +
				"projects. Additional skills or tools mentioned in the JD are good-to-have, but not mandatory.",
			"Stability: Not applicable.",
		},
	},
	{models.RoleIT, models.LevelExperienced}: {
		Title: "IT Experienced",
		Criteria: []string{
			"Location: Must be local.",
			`Age: As per job description (prefer "up to").`,
			"Total Experience: Overall IT field experience.",
			"Relevant Experience: Must align with JD field.",
			"Education: IT-related degrees only (B.E, M.Tech, etc.).",
			"Gender: As per job description.",
			"Skills: Languages and frameworks should match JD.",
			"Stability: Ignore if 1 company <1 year; Reject if 2+ companies each <1 year.",
		},
	},
	{models.RoleNonSales, models.LevelFresher}: {
		Title: "Non-Sales Fresher",
		Criteria: []string{
			"Location: Should be local and match JD.",
			"Age: As per JD.",
			"Total / Relevant Experience: Internship optional, but candidate should have certifications.",
			"Education: Must be relevant to the JD.",
			"Gender: As per JD.",
			"Skills: Must align with the JD.",
			"Stability: Not applicable for freshers.",
		},
	},
	{models.RoleNonSales, models.LevelExperienced}: {
		Title: "Non-Sales Experienced",
		Criteria: []string{
			"Location: Must strictly match the JD.",
			"Age: As per JD.",
			"Total Experience: Overall professional experience.",
			"Relevant Experience: Must align with role in JD.",
			"Education: Must match the JD.",
			"Gender: As per JD.",
			"Skills: Should align with JD and match relevant experience (skills = relevant experience).",
			"Stability:\n   - If 2+ companies and each job ≤1 year → Reject.\n   - If 1 company and ≤1 year → Ignore stability.",
		},
	},
}

type PromptBuilder struct {
	templates map[templateKey]EvaluationTemplate
}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{templates: evaluationTemplates}
}

// Lookup returns the rubric for role and level, or ErrTemplateNotFound.
func (pb *PromptBuilder) Lookup(role models.RoleCategory, level models.SeniorityLevel) (EvaluationTemplate, error) {
	tmpl, ok := pb.templates[templateKey{role: role, level: level}]
	if !ok {
		return EvaluationTemplate{}, fmt.Errorf("%w: %s / %s", ErrTemplateNotFound, role, level)
	}
	tmpl.Role = role
	tmpl.Level = level
	return tmpl, nil
}

// BuildScreeningPrompt creates the judge prompt for one resume.
func (pb *PromptBuilder) BuildScreeningPrompt(jobDescription, resumeText string, role models.RoleCategory, level models.SeniorityLevel) (string, error) {
	tmpl, err := pb.Lookup(role, level)
	if err != nil {
		return "", err
	}
	return tmpl.Render(jobDescription, resumeText), nil
}
