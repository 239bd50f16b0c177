package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/facebookgo/clock"
	"github.com/lshigami/examdesk/config"
	"github.com/lshigami/examdesk/internal/apperr"
	"github.com/lshigami/examdesk/internal/dto"
	"github.com/lshigami/examdesk/internal/grading"
	"github.com/lshigami/examdesk/internal/model"
	"github.com/lshigami/examdesk/internal/notify"
	"github.com/lshigami/examdesk/internal/repository"
	"github.com/lshigami/examdesk/internal/session"
	"github.com/rs/zerolog/log"
)

// backgroundOpTimeout bounds flushes and evaluations started by timers rather than requests.
const backgroundOpTimeout = 30 * time.Second

func resultsPath(attemptID uint) string {
	return fmt.Sprintf("/api/v1/attempts/%d/result", attemptID)
}

// SessionManager owns the live sessions of attempts in progress on this server. Every live
// session has its own countdown and auto-save loop; both stop when the attempt is submitted,
// expires, or the session is closed.
type SessionManager interface {
	Open(ctx context.Context, testID, attemptID uint, studentID string) (*dto.SessionStateDTO, error)
	SetAnswer(ctx context.Context, attemptID uint, studentID string, questionID uint, value *string) (*dto.SetAnswerResponseDTO, error)
	Flush(ctx context.Context, attemptID uint, studentID string) (*dto.FlushResponseDTO, error)
	Submit(ctx context.Context, attemptID uint, studentID string) (*dto.SubmitResponseDTO, error)
	Close(ctx context.Context, attemptID uint, studentID string) error
	Shutdown(ctx context.Context) error
	ActiveSessions() int
}

type liveSession struct {
	*session.Session
	questions map[uint]model.Question
}

type sessionManager struct {
	loader      AttemptLoaderService
	syncer      AnswerSyncService
	evaluation  EvaluationService
	attemptRepo repository.AttemptRepository
	notifier    notify.Notifier
	clock       clock.Clock
	autosave    time.Duration

	mu       sync.Mutex
	sessions map[uint]*liveSession
}

func NewSessionManager(
	loader AttemptLoaderService,
	syncer AnswerSyncService,
	evaluation EvaluationService,
	attemptRepo repository.AttemptRepository,
	notifier notify.Notifier,
	clk clock.Clock,
	cfg *config.Config,
) SessionManager {
	return &sessionManager{
		loader:      loader,
		syncer:      syncer,
		evaluation:  evaluation,
		attemptRepo: attemptRepo,
		notifier:    notifier,
		clock:       clk,
		autosave:    cfg.Session.AutosaveInterval,
		sessions:    make(map[uint]*liveSession),
	}
}

func (m *sessionManager) Open(ctx context.Context, testID, attemptID uint, studentID string) (*dto.SessionStateDTO, error) {
	state, err := m.loader.Load(ctx, testID, attemptID, studentID)
	if err != nil {
		return nil, err
	}
	if state.Redirect {
		return completedState(&state.Attempt, nil), nil
	}

	if state.Expired {
		// a live session whose timer has not fired yet must not evaluate a second time
		if live := m.lookup(attemptID); live != nil {
			m.remove(live)
		}
		log.Info().Uint("attemptID", attemptID).Msg("Attempt opened after its deadline, evaluating saved answers")
		res, err := m.evaluation.Evaluate(ctx, attemptID)
		if err != nil && apperr.KindOf(err) != apperr.KindAlreadyCompleted {
			return nil, err
		}
		// AlreadyCompleted means another path sealed the attempt and sent its own event
		if res != nil {
			m.notifier.Notify(ctx, notify.NewEvent(notify.OutcomeTimeExpired, attemptID, testID, studentID, "Time is up, your test has been submitted", m.clock.Now()))
		}
		out := completedState(&state.Attempt, res)
		out.Expired = true
		return out, nil
	}

	live := m.attach(state)
	return m.liveState(state, live), nil
}

func (m *sessionManager) attach(state *SessionState) *liveSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	if live, ok := m.sessions[state.Attempt.ID]; ok && !live.Closed() {
		live.Store.Merge(state.Answers)
		return live
	}

	timer := session.NewCountdown(m.clock, state.Deadline)
	live := &liveSession{
		Session:   session.New(state.Attempt.ID, state.Attempt.TestID, state.Attempt.StudentID, state.QuestionIDs(), timer),
		questions: make(map[uint]model.Question, len(state.Questions)),
	}
	for _, q := range state.Questions {
		live.questions[q.ID] = q
	}
	live.Store.Merge(state.Answers)
	m.sessions[state.Attempt.ID] = live

	timer.OnExpire(func() { go m.expire(live) })
	timer.Start()
	live.StartAutosave(m.clock, m.autosave, func() { m.autosaveTick(live) })

	log.Info().Uint("attemptID", live.AttemptID).Int("remaining_seconds", state.RemainingSeconds).Msg("Live session opened")
	return live
}

func (m *sessionManager) liveState(state *SessionState, live *liveSession) *dto.SessionStateDTO {
	out := &dto.SessionStateDTO{
		AttemptID:        state.Attempt.ID,
		TestID:           state.Attempt.TestID,
		TestTitle:        state.Test.Title,
		Status:           string(state.Attempt.Status),
		StartTime:        state.Attempt.StartTime,
		Deadline:         state.Deadline,
		RemainingSeconds: state.RemainingSeconds,
		Questions:        toQuestionDTOs(state.Questions),
	}
	for _, e := range live.Store.Snapshot() {
		out.Answers = append(out.Answers, dto.AnswerStateDTO{
			QuestionID: e.QuestionID,
			Value:      e.Value,
			Dirty:      live.Store.IsDirty(e.QuestionID),
		})
	}
	return out
}

func completedState(attempt *model.TestAttempt, res *EvaluationResult) *dto.SessionStateDTO {
	out := &dto.SessionStateDTO{
		AttemptID:   attempt.ID,
		TestID:      attempt.TestID,
		Status:      string(model.AttemptStatusCompleted),
		StartTime:   attempt.StartTime,
		Redirect:    dto.RedirectResults,
		ResultsPath: resultsPath(attempt.ID),
	}
	if res != nil {
		out.Result = toEvaluationDTO(res)
	}
	return out
}

func (m *sessionManager) lookup(attemptID uint) *liveSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[attemptID]
}

func (m *sessionManager) owned(ctx context.Context, op string, attemptID uint, studentID string) (*liveSession, error) {
	live := m.lookup(attemptID)
	if live == nil || live.Closed() {
		return nil, m.noLiveSession(ctx, op, attemptID, studentID)
	}
	if live.StudentID != studentID {
		return nil, apperr.Newf(apperr.KindForbidden, op, "attempt %d belongs to another student", attemptID)
	}
	return live, nil
}

// noLiveSession tells a submitted attempt apart from one that was never opened here.
func (m *sessionManager) noLiveSession(ctx context.Context, op string, attemptID uint, studentID string) error {
	attempt, err := m.attemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		return lookupErr(op, "attempt", attemptID, err)
	}
	if attempt.StudentID != studentID {
		return apperr.Newf(apperr.KindForbidden, op, "attempt %d belongs to another student", attemptID)
	}
	if attempt.IsCompleted() {
		return apperr.Newf(apperr.KindAlreadyCompleted, op, "attempt %d is already submitted", attemptID)
	}
	return apperr.Newf(apperr.KindNotFound, op, "no live session for attempt %d", attemptID)
}

// remove closes the session and forgets it. Only the registered session for the attempt is
// removed; a newer one opened in the meantime stays.
func (m *sessionManager) remove(live *liveSession) {
	m.mu.Lock()
	if m.sessions[live.AttemptID] == live {
		delete(m.sessions, live.AttemptID)
	}
	m.mu.Unlock()
	if live.Close() {
		log.Debug().Uint("attemptID", live.AttemptID).Msg("Live session closed")
	}
}

func (m *sessionManager) SetAnswer(ctx context.Context, attemptID uint, studentID string, questionID uint, value *string) (*dto.SetAnswerResponseDTO, error) {
	const op = "SetAnswer"

	live, err := m.owned(ctx, op, attemptID, studentID)
	if err != nil {
		return nil, err
	}
	q, ok := live.questions[questionID]
	if !ok || !live.HasQuestion(questionID) {
		return nil, apperr.Newf(apperr.KindValidationFailure, op, "question %d is not part of this test", questionID)
	}
	if live.Timer.State() == session.StateExpired {
		return nil, apperr.Newf(apperr.KindAlreadyCompleted, op, "time is up for attempt %d", attemptID)
	}
	if value != nil {
		if err := validateAnswer(&q, *value); err != nil {
			return nil, apperr.New(apperr.KindValidationFailure, op, err)
		}
	}

	live.Store.Set(questionID, value)
	return &dto.SetAnswerResponseDTO{
		QuestionID: questionID,
		Value:      live.Store.Get(questionID),
		DirtyCount: live.Store.DirtyCount(),
	}, nil
}

// validateAnswer checks the shape of a value, not its correctness.
func validateAnswer(q *model.Question, value string) error {
	switch q.Type {
	case model.QuestionTypeTrueFalse:
		if value != "true" && value != "false" {
			return fmt.Errorf("answer to question %d must be \"true\" or \"false\"", q.ID)
		}
	case model.QuestionTypeMultipleChoice:
		if slices.Contains(q.Options, value) {
			return nil
		}
		if idx, err := strconv.Atoi(value); err == nil && idx >= 0 && idx < len(q.Options) {
			return nil
		}
		return fmt.Errorf("answer to question %d is not one of its options", q.ID)
	}
	return nil
}

func (m *sessionManager) Flush(ctx context.Context, attemptID uint, studentID string) (*dto.FlushResponseDTO, error) {
	live, err := m.owned(ctx, "Flush", attemptID, studentID)
	if err != nil {
		return nil, err
	}
	live.Lock()
	defer live.Unlock()
	if live.Closed() {
		return nil, m.noLiveSession(ctx, "Flush", attemptID, studentID)
	}
	return m.flushLocked(ctx, live)
}

// flushLocked writes the session's dirty answers. The caller holds the session lock.
func (m *sessionManager) flushLocked(ctx context.Context, live *liveSession) (*dto.FlushResponseDTO, error) {
	entries := live.Store.ListDirty()
	if len(entries) == 0 {
		return &dto.FlushResponseDTO{}, nil
	}

	res, err := m.syncer.Flush(ctx, live.AttemptID, entries)
	live.Store.ClearDirtyFor(res.Saved)
	out := &dto.FlushResponseDTO{
		Saved:             len(res.Saved),
		FailedQuestionIDs: res.Failed,
		PendingDirty:      live.Store.DirtyCount(),
	}
	if err != nil {
		if apperr.KindOf(err) == apperr.KindAlreadyCompleted {
			m.remove(live)
			return out, err
		}
		ev := notify.NewEvent(notify.OutcomeSaveFailed, live.AttemptID, live.TestID, live.StudentID,
			"Some answers could not be saved, they will be retried", m.clock.Now())
		ev.FailedQuestionIDs = res.Failed
		m.notifier.Notify(ctx, ev)
		return out, err
	}
	m.notifier.Notify(ctx, notify.NewEvent(notify.OutcomeSaved, live.AttemptID, live.TestID, live.StudentID, "Answers saved", m.clock.Now()))
	return out, nil
}

func (m *sessionManager) autosaveTick(live *liveSession) {
	live.Lock()
	defer live.Unlock()
	if live.Closed() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), backgroundOpTimeout)
	defer cancel()
	if _, err := m.flushLocked(ctx, live); err != nil {
		log.Warn().Err(err).Uint("attemptID", live.AttemptID).Msg("Auto-save failed, answers stay dirty")
	}
}

// expire evaluates the attempt with the answers saved so far. Edits not yet flushed when time
// ran out are not included.
func (m *sessionManager) expire(live *liveSession) {
	live.Lock()
	defer live.Unlock()
	if live.Closed() {
		return
	}
	m.remove(live)

	ctx, cancel := context.WithTimeout(context.Background(), backgroundOpTimeout)
	defer cancel()
	res, err := m.evaluation.Evaluate(ctx, live.AttemptID)
	if err != nil && apperr.KindOf(err) != apperr.KindAlreadyCompleted {
		log.Error().Err(err).Uint("attemptID", live.AttemptID).Msg("Evaluation after time expiry failed, it will run on next open")
		return
	}
	if res == nil {
		return
	}
	ev := notify.NewEvent(notify.OutcomeTimeExpired, live.AttemptID, live.TestID, live.StudentID, "Time is up, your test has been submitted", m.clock.Now())
	m.notifier.Notify(ctx, ev)
	log.Info().Uint("attemptID", live.AttemptID).Int("score", res.Score).Msg("Attempt submitted on time expiry")
}

func (m *sessionManager) Submit(ctx context.Context, attemptID uint, studentID string) (*dto.SubmitResponseDTO, error) {
	const op = "Submit"

	live := m.lookup(attemptID)
	if live == nil {
		return m.submitSaved(ctx, attemptID, studentID)
	}
	if live.StudentID != studentID {
		return nil, apperr.Newf(apperr.KindForbidden, op, "attempt %d belongs to another student", attemptID)
	}

	live.Lock()
	defer live.Unlock()
	if live.Closed() {
		// submitted, expired or torn down while we waited; the stored status decides
		return m.submitSaved(ctx, attemptID, studentID)
	}

	if _, err := m.flushLocked(ctx, live); err != nil {
		if apperr.KindOf(err) == apperr.KindAlreadyCompleted {
			return alreadySubmitted(attemptID), nil
		}
		log.Warn().Err(err).Uint("attemptID", attemptID).Msg("Final flush failed, submission aborted")
		return nil, err
	}

	res, err := m.evaluation.Evaluate(ctx, attemptID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindAlreadyCompleted {
			m.remove(live)
			return alreadySubmitted(attemptID), nil
		}
		return nil, err
	}
	m.remove(live)
	m.notifier.Notify(ctx, notify.NewEvent(notify.OutcomeSubmitted, attemptID, live.TestID, studentID, "Your test has been submitted", m.clock.Now()))
	return submitted(res), nil
}

// submitSaved evaluates an attempt that has no live session on this server.
func (m *sessionManager) submitSaved(ctx context.Context, attemptID uint, studentID string) (*dto.SubmitResponseDTO, error) {
	const op = "Submit"

	attempt, err := m.attemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		return nil, lookupErr(op, "attempt", attemptID, err)
	}
	if attempt.StudentID != studentID {
		return nil, apperr.Newf(apperr.KindForbidden, op, "attempt %d belongs to another student", attemptID)
	}
	if attempt.IsCompleted() {
		return alreadySubmitted(attemptID), nil
	}

	res, err := m.evaluation.Evaluate(ctx, attemptID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindAlreadyCompleted {
			return alreadySubmitted(attemptID), nil
		}
		return nil, err
	}
	m.notifier.Notify(ctx, notify.NewEvent(notify.OutcomeSubmitted, attemptID, attempt.TestID, studentID, "Your test has been submitted", m.clock.Now()))
	return submitted(res), nil
}

func submitted(res *EvaluationResult) *dto.SubmitResponseDTO {
	return &dto.SubmitResponseDTO{
		Redirect:    dto.RedirectResults,
		ResultsPath: resultsPath(res.AttemptID),
		Result:      toEvaluationDTO(res),
	}
}

func alreadySubmitted(attemptID uint) *dto.SubmitResponseDTO {
	return &dto.SubmitResponseDTO{
		AlreadyCompleted: true,
		Redirect:         dto.RedirectResults,
		ResultsPath:      resultsPath(attemptID),
	}
}

// Close tears the live session down after a best-effort flush of unsaved answers.
func (m *sessionManager) Close(ctx context.Context, attemptID uint, studentID string) error {
	live, err := m.owned(ctx, "CloseSession", attemptID, studentID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindAlreadyCompleted {
			// nothing left to tear down
			return nil
		}
		return err
	}
	live.Lock()
	defer live.Unlock()
	if live.Closed() {
		return nil
	}
	if _, err := m.flushLocked(ctx, live); err != nil {
		log.Warn().Err(err).Uint("attemptID", attemptID).Msg("Flush on session close failed")
	}
	m.remove(live)
	return nil
}

func (m *sessionManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	live := make([]*liveSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		live = append(live, s)
	}
	m.mu.Unlock()

	log.Info().Int("sessions", len(live)).Msg("Closing live sessions")
	for _, s := range live {
		s.Lock()
		if !s.Closed() {
			if _, err := m.flushLocked(ctx, s); err != nil {
				log.Warn().Err(err).Uint("attemptID", s.AttemptID).Msg("Flush on shutdown failed")
			}
			m.remove(s)
		}
		s.Unlock()
	}
	return nil
}

func (m *sessionManager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func toEvaluationDTO(res *EvaluationResult) *dto.EvaluationResultDTO {
	out := &dto.EvaluationResultDTO{
		AttemptID:          res.AttemptID,
		TestID:             res.TestID,
		RawScore:           res.RawScore,
		NegativeMarks:      res.NegativeMarks,
		Score:              res.Score,
		TotalPossible:      res.TotalPossible,
		Percentage:         res.Percentage,
		Passed:             res.Passed,
		FlaggedQuestionIDs: res.Flagged,
		CompletedAt:        res.CompletedAt,
	}
	for _, item := range res.Items {
		switch item.Outcome {
		case grading.OutcomeCorrect:
			out.Correct++
		case grading.OutcomeWrong:
			out.Incorrect++
		default:
			out.Unanswered++
		}
	}
	return out
}
