// Package ask answers free-text questions about the stored documents,
// issues, and tasks by handing the chat model a compact context block.
package ask

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/capraCoder/mamadoc/internal/actions"
	"github.com/capraCoder/mamadoc/internal/documents"
	"github.com/capraCoder/mamadoc/internal/extraction"
	"github.com/capraCoder/mamadoc/internal/issues"
	"github.com/capraCoder/mamadoc/internal/tasks"
	"github.com/capraCoder/mamadoc/pkg/pagination"
)

var (
	ErrEmptyQuestion = errors.New("question required")
	ErrAnswerFailed  = errors.New("failed to answer question")
)

// MapHTTPStatus maps ask errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyQuestion):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Context sizes. The block stays small enough to leave the model room
// for the answer.
const (
	contextIssues    = 20
	contextDocuments = 25
	contextActions   = 25
	contextTasks     = 25
)

const promptHeader = `You are an assistant helping a family manage German bureaucratic correspondence for an elderly relative in care. Answer the question using only the context below. Answer in the language the question was asked in. When a document or issue is relevant, name it. If the context does not contain the answer, say so plainly.`

// Answer is the model's reply to one question.
type Answer struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// System defines the public contract for question answering.
type System interface {
	Handler() *Handler
	Ask(ctx context.Context, question string) (*Answer, error)
}

type service struct {
	gateway   extraction.Gateway
	issues    issues.System
	documents documents.System
	actions   actions.System
	tasks     tasks.System
	logger    *slog.Logger
}

// New creates an ask service over the domain systems.
func New(
	gateway extraction.Gateway,
	issueSys issues.System,
	documentSys documents.System,
	actionSys actions.System,
	taskSys tasks.System,
	logger *slog.Logger,
) System {
	return &service{
		gateway:   gateway,
		issues:    issueSys,
		documents: documentSys,
		actions:   actionSys,
		tasks:     taskSys,
		logger:    logger.With("system", "ask"),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) Ask(ctx context.Context, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	block, err := s.buildContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnswerFailed, err)
	}

	prompt := fmt.Sprintf("%s\n\n%s\nQUESTION: %s", promptHeader, block, question)

	content, err := s.gateway.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnswerFailed, err)
	}

	s.logger.Info("question answered", "question_length", len(question))

	return &Answer{
		Question: question,
		Answer:   strings.TrimSpace(content),
		AskedAt:  time.Now().UTC(),
	}, nil
}

func (s *service) buildContext(ctx context.Context) (string, error) {
	var b strings.Builder

	if err := s.writeIssues(ctx, &b); err != nil {
		return "", err
	}
	if err := s.writeDocuments(ctx, &b); err != nil {
		return "", err
	}
	if err := s.writeActions(ctx, &b); err != nil {
		return "", err
	}
	if err := s.writeTasks(ctx, &b); err != nil {
		return "", err
	}

	return b.String(), nil
}

func (s *service) writeIssues(ctx context.Context, b *strings.Builder) error {
	page := pagination.PageRequest{Page: 1, PageSize: contextIssues}

	result, err := s.issues.List(ctx, page, issues.Filters{})
	if err != nil {
		return fmt.Errorf("list issues: %w", err)
	}

	b.WriteString("ISSUES:\n")
	for _, issue := range result.Data {
		fmt.Fprintf(b, "- [%s] %s | status: %s | urgency: %s | documents: %d",
			issue.ID, issue.Title, issue.Status, issue.Urgency, issue.DocumentCount)
		if issue.LatestDeadline != nil {
			fmt.Fprintf(b, " | deadline: %s", *issue.LatestDeadline)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return nil
}

func (s *service) writeDocuments(ctx context.Context, b *strings.Builder) error {
	page := pagination.PageRequest{Page: 1, PageSize: contextDocuments}

	result, err := s.documents.List(ctx, page, documents.Filters{})
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	b.WriteString("RECENT DOCUMENTS:\n")
	for _, doc := range result.Data {
		fmt.Fprintf(b, "- %s | %s from %s", doc.Filename, doc.DocType, doc.Sender)
		if doc.DocDate != nil {
			fmt.Fprintf(b, " dated %s", *doc.DocDate)
		}
		if doc.Amount != nil {
			fmt.Fprintf(b, " | amount: %.2f EUR", *doc.Amount)
		}
		if doc.Deadline != nil {
			fmt.Fprintf(b, " | deadline: %s", *doc.Deadline)
		}
		fmt.Fprintf(b, " | %s\n", doc.Summary)
	}
	b.WriteString("\n")
	return nil
}

func (s *service) writeActions(ctx context.Context, b *strings.Builder) error {
	page := pagination.PageRequest{Page: 1, PageSize: contextActions}
	pending := false

	result, err := s.actions.List(ctx, page, actions.Filters{Done: &pending})
	if err != nil {
		return fmt.Errorf("list actions: %w", err)
	}

	b.WriteString("PENDING ACTION ITEMS:\n")
	for _, action := range result.Data {
		fmt.Fprintf(b, "- %s", action.Description)
		if action.Deadline != nil {
			fmt.Fprintf(b, " (due %s)", *action.Deadline)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return nil
}

func (s *service) writeTasks(ctx context.Context, b *strings.Builder) error {
	page := pagination.PageRequest{Page: 1, PageSize: contextTasks}
	pending := false

	result, err := s.tasks.List(ctx, page, tasks.Filters{Done: &pending})
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	b.WriteString("PERSONAL TASKS:\n")
	for _, task := range result.Data {
		fmt.Fprintf(b, "- %s", task.Description)
		if task.Deadline != nil {
			fmt.Fprintf(b, " (due %s)", *task.Deadline)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return nil
}
