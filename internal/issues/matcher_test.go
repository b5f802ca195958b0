package issues_test

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/capraCoder/mamadoc/internal/extraction"
	"github.com/capraCoder/mamadoc/internal/issues"
)

func ptr(s string) *string { return &s }

// scoresEqual tolerates the rounding drift of accumulated score terms.
func scoresEqual(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}

func candidate(id uuid.UUID, senderNorm string, refs []string, firstSeen, latestDate *string) issues.Candidate {
	return issues.Candidate{
		ID:         id,
		SenderNorm: senderNorm,
		RefNumbers: refs,
		FirstSeen:  firstSeen,
		LatestDate: latestDate,
	}
}

func TestMatchRefOverlapAttaches(t *testing.T) {
	id := uuid.New()
	rec := &extraction.Record{
		Sender:           "Stadtwerke München GmbH",
		ReferenceNumbers: []string{"VK-2024-551"},
		DocDate:          ptr("2026-03-10"),
	}
	cands := []issues.Candidate{
		candidate(id, "stadtwerke münchen", []string{"VK2024551"}, ptr("2026-01-15"), ptr("2026-02-20")),
	}

	d := issues.Match(rec, cands)
	if !d.Attach {
		t.Fatalf("Match() Attach = false, want true")
	}
	if d.IssueID != id {
		t.Errorf("Match() IssueID = %v, want %v", d.IssueID, id)
	}
	want := issues.ScoreRefOverlap + issues.ScoreSenderMatch + issues.ScoreTemporalBonus
	if !scoresEqual(d.Score, want) {
		t.Errorf("Match() Score = %v, want %v", d.Score, want)
	}
}

func TestMatchSenderAloneIsAmbiguous(t *testing.T) {
	id := uuid.New()
	rec := &extraction.Record{
		Sender:  "AOK Bayern",
		DocDate: ptr("2026-03-10"),
	}
	cands := []issues.Candidate{
		candidate(id, "aok bayern", nil, ptr("2026-02-01"), ptr("2026-02-01")),
	}

	d := issues.Match(rec, cands)
	if d.Attach {
		t.Fatalf("Match() Attach = true, want false")
	}
	if len(d.Ambiguous) != 1 {
		t.Fatalf("Match() Ambiguous length = %d, want 1", len(d.Ambiguous))
	}
	want := issues.ScoreSenderMatch + issues.ScoreTemporalBonus
	if got := d.Ambiguous[0].Score; !scoresEqual(got, want) {
		t.Errorf("ambiguous score = %v, want %v", got, want)
	}
}

func TestMatchOldMatterFromSameSender(t *testing.T) {
	// A letter dated a year after the issue's span scores below the
	// consult floor even with a sender match, so a new issue opens.
	id := uuid.New()
	rec := &extraction.Record{
		Sender:  "City Tax Office",
		DocDate: ptr("2026-03-01"),
	}
	cands := []issues.Candidate{
		candidate(id, "city tax office", nil, ptr("2025-03-01"), ptr("2025-03-01")),
	}

	d := issues.Match(rec, cands)
	if d.Attach {
		t.Fatalf("Match() Attach = true, want false")
	}
	if len(d.Ambiguous) != 0 {
		t.Errorf("Match() Ambiguous = %v, want none", d.Ambiguous)
	}
}

func TestMatchRefOverlapSurvivesTemporalPenalty(t *testing.T) {
	id := uuid.New()
	rec := &extraction.Record{
		Sender:           "Deutsche Rentenversicherung",
		ReferenceNumbers: []string{"12 345678 A 901"},
		DocDate:          ptr("2026-06-01"),
	}
	cands := []issues.Candidate{
		candidate(id, "some other sender", []string{"12345678A901"}, ptr("2024-01-01"), ptr("2024-02-01")),
	}

	d := issues.Match(rec, cands)
	if !d.Attach {
		t.Fatalf("Match() Attach = false, want true")
	}
	want := issues.ScoreRefOverlap - issues.ScoreTemporalPenalty
	if !scoresEqual(d.Score, want) {
		t.Errorf("Match() Score = %v, want %v", d.Score, want)
	}
}

func TestMatchNoCandidates(t *testing.T) {
	rec := &extraction.Record{Sender: "Pflegekasse"}

	d := issues.Match(rec, nil)
	if d.Attach {
		t.Errorf("Match() Attach = true, want false")
	}
	if len(d.Ambiguous) != 0 {
		t.Errorf("Match() Ambiguous = %v, want none", d.Ambiguous)
	}
}

func TestMatchTieBreaksOnRecency(t *testing.T) {
	older := candidate(uuid.New(), "aok bayern", []string{"REF1"}, ptr("2026-01-01"), ptr("2026-01-01"))
	older.UpdatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := candidate(uuid.New(), "aok bayern", []string{"REF2"}, ptr("2026-01-01"), ptr("2026-01-01"))
	newer.UpdatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	rec := &extraction.Record{
		Sender:  "AOK Bayern",
		DocDate: ptr("2026-01-15"),
	}

	d := issues.Match(rec, []issues.Candidate{older, newer})
	if d.Attach {
		t.Fatalf("Match() Attach = true, want false")
	}
	if len(d.Ambiguous) != 2 {
		t.Fatalf("Match() Ambiguous length = %d, want 2", len(d.Ambiguous))
	}
	if d.Ambiguous[0].Candidate.ID != newer.ID {
		t.Errorf("first ambiguous candidate = %v, want the most recently updated", d.Ambiguous[0].Candidate.ID)
	}
}

func TestMatchMissingDocDateSkipsTemporal(t *testing.T) {
	id := uuid.New()
	rec := &extraction.Record{
		Sender:           "Stadtwerke",
		ReferenceNumbers: []string{"VK-1"},
	}
	cands := []issues.Candidate{
		candidate(id, "stadtwerke", []string{"VK1"}, ptr("2020-01-01"), ptr("2020-02-01")),
	}

	d := issues.Match(rec, cands)
	if !d.Attach {
		t.Fatalf("Match() Attach = false, want true")
	}
	want := issues.ScoreRefOverlap + issues.ScoreSenderMatch
	if !scoresEqual(d.Score, want) {
		t.Errorf("Match() Score = %v, want %v", d.Score, want)
	}
}
