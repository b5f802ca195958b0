package issues

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/capraCoder/mamadoc/internal/extraction"
)

// Matching constants. Reference-number overlap attaches even with a
// temporal penalty (1.0 - 0.25 meets the threshold); a sender match
// alone tops out at 0.60 and never attaches on its own.
const (
	ScoreRefOverlap      = 1.0
	ScoreSenderMatch     = 0.45
	ScoreTemporalBonus   = 0.15
	ScoreTemporalPenalty = 0.25
	AttachThreshold      = 0.75
	ConsultFloor         = 0.40
	TemporalWindowDays   = 270
)

const dateLayout = "2006-01-02"

// Scored pairs a candidate issue with its match score.
type Scored struct {
	Candidate Candidate
	Score     float64
}

// Decision is the matcher outcome. When Attach is false the caller
// creates a new issue, optionally consulting the model first over the
// Ambiguous candidates.
type Decision struct {
	Attach    bool
	IssueID   uuid.UUID
	Score     float64
	Ambiguous []Scored
}

// Match scores the candidate issues against a validated extraction
// record and decides attach-or-create. Pure function, cannot fail:
// the worst outcome is a decision to create a new issue. Ties resolve
// to the highest score, then the most recently updated issue.
func Match(rec *extraction.Record, candidates []Candidate) Decision {
	senderNorm := NormalizeSender(rec.Sender)
	refs := NormalizeRefs(rec.ReferenceNumbers)

	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		score := scoreCandidate(senderNorm, refs, rec.DocDate, c)
		if score >= ConsultFloor {
			scored = append(scored, Scored{Candidate: c, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Candidate.UpdatedAt.After(scored[j].Candidate.UpdatedAt)
	})

	if len(scored) > 0 && scored[0].Score >= AttachThreshold {
		return Decision{
			Attach:  true,
			IssueID: scored[0].Candidate.ID,
			Score:   scored[0].Score,
		}
	}

	var ambiguous []Scored
	for _, s := range scored {
		if s.Score < AttachThreshold {
			ambiguous = append(ambiguous, s)
		}
	}

	return Decision{Ambiguous: ambiguous}
}

func scoreCandidate(senderNorm string, refs []string, docDate *string, c Candidate) float64 {
	var score float64

	if refOverlap(refs, c.RefNumbers) {
		score += ScoreRefOverlap
	}
	if senderNorm != "" && senderNorm == c.SenderNorm {
		score += ScoreSenderMatch
	}
	score += temporalScore(docDate, c.FirstSeen, c.LatestDate)

	return score
}

func refOverlap(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// temporalScore rewards documents dated near the issue's existing date
// span and penalizes documents far outside it. Unrelated matters from
// the same sender recur over the years; the span keeps them apart.
// Returns 0 when either side lacks date information.
func temporalScore(docDate *string, firstSeen, latestDate *string) float64 {
	if docDate == nil {
		return 0
	}
	d, err := time.Parse(dateLayout, *docDate)
	if err != nil {
		return 0
	}

	start, startOK := parseDate(firstSeen)
	end, endOK := parseDate(latestDate)
	if !startOK && !endOK {
		return 0
	}
	if !startOK {
		start = end
	}
	if !endOK {
		end = start
	}

	var distance time.Duration
	switch {
	case d.Before(start):
		distance = start.Sub(d)
	case d.After(end):
		distance = d.Sub(end)
	default:
		distance = 0
	}

	if distance <= TemporalWindowDays*24*time.Hour {
		return ScoreTemporalBonus
	}
	return -ScoreTemporalPenalty
}

func parseDate(s *string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
