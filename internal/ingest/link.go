package ingest

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"github.com/google/uuid"

	"github.com/capraCoder/mamadoc/internal/documents"
	"github.com/capraCoder/mamadoc/internal/issues"
)

// LinkNode returns a state node that attaches the document to an issue.
// Rule-based scoring decides first; an ambiguous score band is escalated
// to the model, and a document nothing claims opens a new issue. Model
// consult failures degrade to issue creation rather than failing the run.
// A forced re-run re-matches a document that already has an issue; when
// the match moves it, the former issue's derived fields are recomputed.
func LinkNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		doc, err := stateDocument(s)
		if err != nil {
			return s, fmt.Errorf("link: %w", err)
		}
		rec, err := stateRecord(s)
		if err != nil {
			return s, fmt.Errorf("link: %w", err)
		}

		candidates, err := rt.Issues.Candidates(ctx)
		if err != nil {
			return s, fmt.Errorf("link: %w: %w", ErrLinkFailed, err)
		}

		decision := issues.Match(&rec, candidates)

		if !decision.Attach && len(decision.Ambiguous) > 0 {
			if id, ok := issues.Consult(ctx, rt.Gateway, rt.Logger, &rec, decision.Ambiguous); ok {
				decision.Attach = true
				decision.IssueID = id
			}
		}

		if decision.Attach {
			if err := rt.Issues.Attach(ctx, doc.ID, decision.IssueID, &rec); err != nil {
				return s, fmt.Errorf("link: %w: %w", ErrLinkFailed, err)
			}

			if doc.IssueID != nil && *doc.IssueID != decision.IssueID {
				reconcileFormerIssue(ctx, rt, doc, decision.IssueID)
			}

			rt.Logger.InfoContext(
				ctx, "link node complete",
				"document_id", doc.ID,
				"issue_id", decision.IssueID,
				"score", decision.Score,
			)

			s = s.Set(KeyIssueID, decision.IssueID)
			s = s.Set(KeyIssueCreated, false)
			return s, nil
		}

		issue, err := rt.Issues.CreateForDocument(ctx, doc.ID, &rec)
		if err != nil {
			return s, fmt.Errorf("link: %w: %w", ErrLinkFailed, err)
		}

		if doc.IssueID != nil {
			reconcileFormerIssue(ctx, rt, doc, issue.ID)
		}

		rt.Logger.InfoContext(
			ctx, "link node complete",
			"document_id", doc.ID,
			"issue_id", issue.ID,
			"issue_created", true,
		)

		s = s.Set(KeyIssueID, issue.ID)
		s = s.Set(KeyIssueCreated, true)
		return s, nil
	})
}

// reconcileFormerIssue refreshes the derived fields of the issue a
// forced re-run moved the document away from. The move itself already
// committed; a recompute failure is logged, not fatal.
func reconcileFormerIssue(ctx context.Context, rt *Runtime, doc *documents.Document, newIssueID uuid.UUID) {
	if err := rt.Issues.RecomputeDerived(ctx, *doc.IssueID); err != nil {
		rt.Logger.Warn(
			"former issue recompute failed",
			"document_id", doc.ID,
			"issue_id", *doc.IssueID,
			"error", err,
		)
		return
	}

	rt.Logger.InfoContext(
		ctx, "document moved between issues",
		"document_id", doc.ID,
		"from_issue_id", *doc.IssueID,
		"to_issue_id", newIssueID,
	)
}
