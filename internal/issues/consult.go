package issues

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/capraCoder/mamadoc/internal/extraction"
	"github.com/capraCoder/mamadoc/pkg/formatting"
)

// ConsultConfidence is the minimum model confidence required to attach
// a document on the model's recommendation.
const ConsultConfidence = 0.6

const linkingPrompt = `You are matching a newly processed document to existing issues (groups of related documents about the same matter).

New document:
- Sender: %s
- Subject: %s
- Date: %s
- Type: %s
- Reference numbers: %s
- Letter type: %s

Existing issues:
%s

Does this document belong to an existing issue? Consider:
- Same sender + same/similar reference number = strong match
- Same sender + same topic/subject + overlapping time period = likely match
- Different sender but same reference number = possible match (e.g., insurance reply to original invoice)

Return ONLY valid JSON:
{"issue_id": "<uuid or null>", "confidence": <0.0-1.0>, "reason": "brief explanation"}

Return issue_id=null if this is a new matter.`

type linkingResponse struct {
	IssueID    *string `json:"issue_id"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Consult asks the chat model to place a document among the ambiguous
// candidates the heuristic could not decide on. Gateway errors and
// malformed responses degrade silently to the heuristic outcome (create
// a new issue): linking assistance is best-effort, never load-bearing.
func Consult(
	ctx context.Context,
	gw extraction.Gateway,
	logger *slog.Logger,
	rec *extraction.Record,
	ambiguous []Scored,
) (uuid.UUID, bool) {
	if gw == nil || len(ambiguous) == 0 {
		return uuid.Nil, false
	}

	prompt := buildLinkingPrompt(rec, ambiguous)

	content, err := gw.Complete(ctx, prompt)
	if err != nil {
		logger.Warn("issue linking consult failed", "error", err)
		return uuid.Nil, false
	}

	resp, err := formatting.Parse[linkingResponse](content)
	if err != nil {
		logger.Warn("issue linking response unparseable")
		return uuid.Nil, false
	}

	if resp.IssueID == nil || resp.Confidence < ConsultConfidence {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(*resp.IssueID)
	if err != nil {
		logger.Warn("issue linking returned invalid id", "id", *resp.IssueID)
		return uuid.Nil, false
	}

	// The model may only pick from the candidates it was shown.
	for _, s := range ambiguous {
		if s.Candidate.ID == id {
			logger.Info("issue linked by model consult", "issue_id", id, "reason", resp.Reason)
			return id, true
		}
	}

	logger.Warn("issue linking returned unknown candidate", "id", id)
	return uuid.Nil, false
}

func buildLinkingPrompt(rec *extraction.Record, ambiguous []Scored) string {
	var issues strings.Builder
	for _, s := range ambiguous {
		c := s.Candidate
		fmt.Fprintf(&issues,
			"- Issue %s: %s | sender: %s | refs: %s | category: %s | dates: %s to %s | %d docs | status: %s\n",
			c.ID, c.Title, c.Sender, strings.Join(c.RefNumbers, ", "), c.Category,
			orUnknown(c.FirstSeen), orUnknown(c.LatestDate), c.DocCount, c.Status,
		)
	}

	refs := "none"
	if len(rec.ReferenceNumbers) > 0 {
		refs = strings.Join(rec.ReferenceNumbers, ", ")
	}

	return fmt.Sprintf(linkingPrompt,
		rec.Sender, rec.Subject, orUnknown(rec.DocDate), rec.DocType,
		refs, rec.LetterType, issues.String(),
	)
}

func orUnknown(s *string) string {
	if s == nil {
		return "unknown"
	}
	return *s
}
