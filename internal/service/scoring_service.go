package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"questionnaire-reader/internal/dataset"
	"questionnaire-reader/internal/domain"
	"questionnaire-reader/internal/scoring"
)

// ScoringService scores single response vectors and whole exports.
type ScoringService struct {
	workers int
	logger  *zap.Logger
	scoreFn func(dataset.Respondent) domain.RespondentScores
}

var (
	ErrScoringServiceNotConfigured = errors.New("scoring service not configured")
	ErrScoringInvalidInput         = errors.New("scoring service invalid input")
)

// NewScoringService creates the service; workers <= 0 uses GOMAXPROCS.
func NewScoringService(workers int, logger *zap.Logger) *ScoringService {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ScoringService{workers: workers, logger: logger}
	svc.scoreFn = svc.scoreRespondent
	return svc
}

func (s *ScoringService) ScoreBFI(responses []string) (domain.BFIResult, error) {
	res, err := scoring.ScoreBFI(responses)
	if err != nil {
		return domain.BFIResult{}, fmt.Errorf("%w: %w", ErrScoringInvalidInput, err)
	}
	s.logIssues(domain.InstrumentBFI, res.Issues)
	return res, nil
}

func (s *ScoringService) ScorePSQI(responses map[string]string) (domain.PSQIResult, error) {
	if len(responses) == 0 {
		return domain.PSQIResult{}, fmt.Errorf("%w: no psqi responses", ErrScoringInvalidInput)
	}
	res := scoring.ScorePSQI(responses)
	s.logIssues(domain.InstrumentPSQI, res.Issues)
	return res, nil
}

// ScorePSQIItems scores a positional PSQI vector.
func (s *ScoringService) ScorePSQIItems(items []string) (domain.PSQIResult, error) {
	responses, err := scoring.PSQIFromSlice(items)
	if err != nil {
		return domain.PSQIResult{}, fmt.Errorf("%w: %w", ErrScoringInvalidInput, err)
	}
	return s.ScorePSQI(responses)
}

func (s *ScoringService) ScoreSHS(responses []string) (domain.SHSResult, error) {
	res, err := scoring.ScoreSHS(responses)
	if err != nil {
		return domain.SHSResult{}, fmt.Errorf("%w: %w", ErrScoringInvalidInput, err)
	}
	s.logIssues(domain.InstrumentSHS, res.Issues)
	return res, nil
}

func (s *ScoringService) logIssues(instrument string, issues []domain.Issue) {
	if len(issues) == 0 {
		return
	}
	s.logger.Debug("scored with issues", zap.String("instrument", instrument), zap.Int("issues", len(issues)))
}

// ScoreRespondent scores one row. A panic while scoring is recovered and reported as an
// issue so it never reaches the caller.
func (s *ScoringService) ScoreRespondent(r dataset.Respondent) (out domain.RespondentScores) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("respondent scoring panicked", zap.String("respondent", r.ID), zap.Any("panic", rec))
			out = domain.RespondentScores{
				ID:    r.ID,
				Row:   r.Row,
				Extra: []domain.Issue{{Item: r.ID, Kind: domain.IssuePanic, Value: fmt.Sprint(rec)}},
			}
		}
	}()
	return s.scoreFn(r)
}

func (s *ScoringService) scoreRespondent(r dataset.Respondent) domain.RespondentScores {
	out := domain.RespondentScores{ID: r.ID, Row: r.Row}
	if r.ExtraFields > 0 {
		// Los campos estan corridos: no se puntua con celdas equivocadas.
		out.Extra = append(out.Extra, domain.Issue{
			Item:  r.ID,
			Kind:  domain.IssueMalformedRow,
			Value: fmt.Sprintf("%d fields beyond the header", r.ExtraFields),
		})
		return out
	}
	if r.BFI != nil {
		res, err := scoring.ScoreBFI(r.BFI)
		if err != nil {
			out.Extra = append(out.Extra, structuralIssue(domain.InstrumentBFI, err))
		}
		out.BFI = res
	}
	if r.PSQI != nil {
		out.PSQI = scoring.ScorePSQI(r.PSQI)
	}
	if r.SHS != nil {
		res, err := scoring.ScoreSHS(r.SHS)
		if err != nil {
			out.Extra = append(out.Extra, structuralIssue(domain.InstrumentSHS, err))
		}
		out.SHS = res
	}
	return out
}

func structuralIssue(instrument string, err error) domain.Issue {
	return domain.Issue{Instrument: instrument, Item: instrument, Kind: domain.IssueItemCount, Value: err.Error()}
}

// ScoreRespondents scores every respondent in parallel; results keep the input order.
// Cancelling ctx stops scheduling new respondents and returns the context error.
func (s *ScoringService) ScoreRespondents(ctx context.Context, respondents []dataset.Respondent) ([]domain.RespondentScores, error) {
	if s == nil || s.scoreFn == nil {
		return nil, ErrScoringServiceNotConfigured
	}
	out := make([]domain.RespondentScores, len(respondents))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, r := range respondents {
		if gctx.Err() != nil {
			break
		}
		i, r := i, r
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = s.ScoreRespondent(r)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("score respondents: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("score respondents: %w", err)
	}
	return out, nil
}

// BatchResult is a scored export.
type BatchResult struct {
	ID          string                    `json:"batch_id"`
	Columns     []string                  `json:"columns"`
	Respondents []domain.RespondentScores `json:"respondents"`
	IssueCount  int                       `json:"issue_count"`
	// Table is the cleaned export with raw items replaced by the scored columns.
	Table *dataset.Table `json:"-"`
}

// ScoreDataset reads, cleans and scores a CSV export laid out as l.
func (s *ScoringService) ScoreDataset(ctx context.Context, r io.Reader, l dataset.Layout) (*BatchResult, error) {
	if s == nil {
		return nil, ErrScoringServiceNotConfigured
	}
	start := time.Now()
	batchID := uuid.NewString()

	tbl, err := dataset.Read(r, l)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if err := dataset.Clean(tbl, l); err != nil {
		return nil, fmt.Errorf("clean dataset: %w", err)
	}
	sel, err := dataset.Select(tbl, l)
	if err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}

	s.logger.Info("scoring batch",
		zap.String("batch_id", batchID),
		zap.Int("respondents", tbl.Len()),
		zap.Int("workers", s.workers),
	)

	scores, err := s.ScoreRespondents(ctx, dataset.Respondents(tbl, sel))
	if err != nil {
		s.logger.Warn("batch scoring aborted", zap.String("batch_id", batchID), zap.Error(err))
		return nil, err
	}

	columns := l.ScoredColumns()
	scored, err := tbl.Stitch(sel, scores, columns)
	if err != nil {
		return nil, err
	}

	issues := 0
	for _, sc := range scores {
		issues += len(sc.Issues())
	}
	s.logger.Info("batch scored",
		zap.String("batch_id", batchID),
		zap.Int("respondents", len(scores)),
		zap.Int("issues", issues),
		zap.Duration("duration", time.Since(start)),
	)

	return &BatchResult{
		ID:          batchID,
		Columns:     columns,
		Respondents: scores,
		IssueCount:  issues,
		Table:       scored,
	}, nil
}
