// Package outreach drafts personalized first-touch messages for evaluated
// candidates.
package outreach

import (
	"context"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/sourcingkit/sourcer/internal/ai"
	"github.com/sourcingkit/sourcer/internal/candidate"
)

//go:embed prompt_outreach.md
var outreachPromptTemplate string

// Message is one drafted outreach message. Subject is set only for premium
// messages.
type Message struct {
	Subject string
	Body    string
}

// Drafter produces outreach messages, preferring the text-generation
// capability and falling back to a deterministic template.
type Drafter struct {
	generator ai.Generator
	jobTitle  string
	company   string
	logger    *zap.Logger
}

func NewDrafter(generator ai.Generator, jobTitle, company string, logger *zap.Logger) *Drafter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Drafter{
		generator: generator,
		jobTitle:  jobTitle,
		company:   company,
		logger:    logger,
	}
}

// Draft writes a short personalized message for the candidate. It never
// fails: when generation is unavailable or errors, the template fallback is
// used.
func (d *Drafter) Draft(ctx context.Context, rec *candidate.Record) *Message {
	if d.generator != nil {
		prompt := d.buildPrompt(rec)

		text, err := d.generator.Generate(ctx, prompt)
		if err == nil && strings.TrimSpace(text) != "" {
			return &Message{
				Subject: d.subject(),
				Body:    strings.TrimSpace(text),
			}
		}

		if err != nil {
			d.logger.Warn("outreach generation failed, using template",
				zap.String("candidate_id", rec.ExternalID),
				zap.Error(err),
			)
		}
	}

	return d.fallback(rec)
}

func (d *Drafter) buildPrompt(rec *candidate.Record) string {
	replacer := strings.NewReplacer(
		"{{CANDIDATE_NAME}}", rec.Name,
		"{{CANDIDATE_TITLE}}", rec.Title,
		"{{CANDIDATE_COMPANY}}", rec.Company,
		"{{CANDIDATE_ABOUT}}", rec.About,
		"{{CANDIDATE_SKILLS}}", strings.Join(rec.Skills, ", "),
		"{{JOB_TITLE}}", d.jobTitle,
		"{{COMPANY}}", d.company,
	)
	return replacer.Replace(outreachPromptTemplate)
}

func (d *Drafter) fallback(rec *candidate.Record) *Message {
	name := firstName(rec.Name)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "I came across your profile and your background")
	if rec.Title != "" {
		fmt.Fprintf(&b, " as %s", rec.Title)
	}
	fmt.Fprintf(&b, " stood out for a %s role we are hiring for", d.roleName())
	if d.company != "" {
		fmt.Fprintf(&b, " at %s", d.company)
	}
	b.WriteString(".\n\n")
	b.WriteString("Would you be open to a short conversation about it?\n\nBest regards")

	return &Message{Subject: d.subject(), Body: b.String()}
}

func (d *Drafter) subject() string {
	return fmt.Sprintf("Opportunity: %s", d.roleName())
}

func (d *Drafter) roleName() string {
	if strings.TrimSpace(d.jobTitle) == "" {
		return "new"
	}
	return d.jobTitle
}

func firstName(full string) string {
	full = strings.TrimSpace(full)
	if full == "" {
		return "there"
	}
	return strings.Fields(full)[0]
}
