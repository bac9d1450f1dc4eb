package evaluation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sourcingkit/sourcer/internal/candidate"
)

// ErrMissingJobRequirements is returned when the job requirements text is empty.
var ErrMissingJobRequirements = errors.New("job requirements text is required")

// MatchAnalysis is the result of comparing one candidate against one job
// description. It is computed fresh per evaluation and never persisted; only
// the assessment derived from it is retained.
type MatchAnalysis struct {
	SkillsScore     float64  `json:"skills_score"`
	ExperienceScore float64  `json:"experience_score"`
	LocationScore   float64  `json:"location_score"`
	EducationScore  float64  `json:"education_score"`
	MatchedSkills   []string `json:"matched_skills,omitempty"`
	MissingSkills   []string `json:"missing_skills,omitempty"`
	SkillsNote      string   `json:"skills_note,omitempty"`
	ExperienceNote  string   `json:"experience_note,omitempty"`
	LocationNote    string   `json:"location_note,omitempty"`
	EducationNote   string   `json:"education_note,omitempty"`
}

// Weights control how sub-scores combine into the overall score.
type Weights struct {
	Skills     float64
	Experience float64
	Location   float64
	Education  float64
}

func DefaultWeights() Weights {
	return Weights{Skills: 0.4, Experience: 0.3, Location: 0.15, Education: 0.15}
}

// Overall computes the weighted composite score in [0,100].
func (a *MatchAnalysis) Overall(w Weights) float64 {
	total := w.Skills + w.Experience + w.Location + w.Education
	if total <= 0 {
		w = DefaultWeights()
		total = 1
	}

	score := (a.SkillsScore*w.Skills +
		a.ExperienceScore*w.Experience +
		a.LocationScore*w.Location +
		a.EducationScore*w.Education) / total

	return clampScore(score)
}

// AnalyzeLocally computes a MatchAnalysis without any external capability.
// It is deterministic given identical inputs and serves as the fallback when
// the AI-backed analyzer fails.
func AnalyzeLocally(rec *candidate.Record, jobRequirements string) (*MatchAnalysis, error) {
	if strings.TrimSpace(jobRequirements) == "" {
		return nil, ErrMissingJobRequirements
	}

	required := extractSkills(jobRequirements)
	matched, missing := matchSkills(rec.Skills, required)

	analysis := &MatchAnalysis{
		SkillsScore:     skillsScore(matched, required),
		ExperienceScore: experienceScore(rec, jobRequirements),
		LocationScore:   locationScore(rec, jobRequirements),
		EducationScore:  educationScore(rec),
		MatchedSkills:   matched,
		MissingSkills:   missing,
	}

	analysis.SkillsNote = fmt.Sprintf("%d of %d required skills matched", len(matched), len(required))
	analysis.ExperienceNote = experienceNote(rec)
	analysis.LocationNote = locationNote(rec)
	analysis.EducationNote = educationNote(rec)

	return analysis, nil
}

var skillTokenRe = regexp.MustCompile(`[A-Za-z][A-Za-z0-9+#.]*`)

// yearsRequiredRe captures patterns like "5+ years" or "3 years".
var yearsRequiredRe = regexp.MustCompile(`(\d+)\s*\+?\s*years?`)

// stopwords drops plain-English tokens from the extracted requirement skills.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "experience": true, "expertise": true, "for": true,
	"in": true, "is": true, "knowledge": true, "of": true, "on": true,
	"or": true, "plus": true, "proficiency": true, "required": true,
	"requirements": true, "skills": true, "strong": true, "the": true,
	"to": true, "we": true, "with": true, "working": true, "years": true,
	"year": true, "you": true,
}

// extractSkills pulls candidate skill tokens out of the requirements text,
// lowercased, deduplicated, in order of first appearance.
func extractSkills(text string) []string {
	var skills []string
	seen := make(map[string]bool)

	for _, token := range skillTokenRe.FindAllString(text, -1) {
		normalized := strings.ToLower(token)
		if len(normalized) < 2 || stopwords[normalized] || seen[normalized] {
			continue
		}
		seen[normalized] = true
		skills = append(skills, normalized)
	}

	return skills
}

// matchSkills splits required skills into matched and missing against the
// candidate's skill set, case-insensitively. Ordering follows the required
// list to keep the result stable.
func matchSkills(candidateSkills, required []string) (matched, missing []string) {
	have := make(map[string]bool, len(candidateSkills))
	for _, s := range candidateSkills {
		have[strings.ToLower(strings.TrimSpace(s))] = true
	}

	for _, skill := range required {
		if have[skill] {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	return matched, missing
}

func skillsScore(matched, required []string) float64 {
	if len(required) == 0 {
		return 50
	}
	return clampScore(float64(len(matched)) / float64(len(required)) * 100)
}

func experienceScore(rec *candidate.Record, jobRequirements string) float64 {
	if rec.YearsExperience == nil {
		return 50
	}

	years := *rec.YearsExperience

	if m := yearsRequiredRe.FindStringSubmatch(strings.ToLower(jobRequirements)); m != nil {
		required, err := strconv.ParseFloat(m[1], 64)
		if err == nil && required > 0 {
			return clampScore(years / required * 100)
		}
	}

	switch {
	case years >= 8:
		return 90
	case years >= 5:
		return 80
	case years >= 2:
		return 60
	default:
		return 40
	}
}

func locationScore(rec *candidate.Record, jobRequirements string) float64 {
	lowered := strings.ToLower(jobRequirements)
	if strings.Contains(lowered, "remote") {
		return 100
	}

	location := strings.ToLower(strings.TrimSpace(rec.Location))
	if location == "" {
		return 50
	}

	for _, part := range strings.FieldsFunc(location, func(r rune) bool { return r == ',' || r == '/' }) {
		if part = strings.TrimSpace(part); part != "" && strings.Contains(lowered, part) {
			return 100
		}
	}

	return 30
}

func educationScore(rec *candidate.Record) float64 {
	if len(rec.Education) == 0 {
		return 50
	}

	best := 60.0
	for _, edu := range rec.Education {
		degree := strings.ToLower(edu.Degree)
		switch {
		case strings.Contains(degree, "phd") || strings.Contains(degree, "doctor"):
			best = max(best, 95)
		case strings.Contains(degree, "master"):
			best = max(best, 90)
		case strings.Contains(degree, "bachelor"):
			best = max(best, 80)
		}
	}

	return best
}

func experienceNote(rec *candidate.Record) string {
	if rec.YearsExperience == nil {
		return "years of experience not available on profile"
	}
	return fmt.Sprintf("%.0f years of experience", *rec.YearsExperience)
}

func locationNote(rec *candidate.Record) string {
	if strings.TrimSpace(rec.Location) == "" {
		return "location not available on profile"
	}
	return fmt.Sprintf("based in %s", rec.Location)
}

func educationNote(rec *candidate.Record) string {
	if len(rec.Education) == 0 {
		return "no education entries on profile"
	}
	return fmt.Sprintf("%d education entries", len(rec.Education))
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
