package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/waypoint/internal/answer"
	"github.com/roach88/waypoint/internal/fault"
	"github.com/roach88/waypoint/internal/session"
	"github.com/roach88/waypoint/internal/survey"
)

// Memory is an in-process store with the same contracts as Store.
// Snapshots are copied through their JSON form, so a stored record never
// aliases the survey it was answered from.
//
// Thread-safety: Memory is safe for concurrent use. Transactions are
// serialized by a mutex and applied to a copy that replaces the live state
// on success.
type Memory struct {
	mu    sync.Mutex
	state *memState
}

type memState struct {
	nextSessionID int64
	sessions      map[int64]session.Session
	byToken       map[string]int64
	answers       map[int64][]answer.QuestionAnswer
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{state: &memState{
		sessions: make(map[int64]session.Session),
		byToken:  make(map[string]int64),
		answers:  make(map[int64][]answer.QuestionAnswer),
	}}
}

func (st *memState) clone() *memState {
	c := &memState{
		nextSessionID: st.nextSessionID,
		sessions:      make(map[int64]session.Session, len(st.sessions)),
		byToken:       make(map[string]int64, len(st.byToken)),
		answers:       make(map[int64][]answer.QuestionAnswer, len(st.answers)),
	}
	for k, v := range st.sessions {
		c.sessions[k] = v
	}
	for k, v := range st.byToken {
		c.byToken[k] = v
	}
	for k, v := range st.answers {
		c.answers[k] = append([]answer.QuestionAnswer(nil), v...)
	}
	return c
}

// CreateSession stores a new session.
func (m *Memory) CreateSession(ctx context.Context, ns session.NewSession) (session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, dup := m.state.byToken[ns.Token]; dup {
		return session.Session{}, fmt.Errorf("write session: duplicate token")
	}

	m.state.nextSessionID++
	created := session.Session{
		ID:             m.state.nextSessionID,
		UUID:           uuid.Must(uuid.NewV7()).String(),
		Token:          ns.Token,
		SurveyID:       ns.SurveyID,
		Completed:      ns.NextQuestionID == "",
		NextQuestionID: ns.NextQuestionID,
	}
	m.state.sessions[created.ID] = created
	m.state.byToken[created.Token] = created.ID
	return created, nil
}

// GetSessionByToken returns nil, nil when no session has the token.
func (m *Memory) GetSessionByToken(ctx context.Context, token string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.state.byToken[token]
	if !ok {
		return nil, nil
	}
	sess := m.state.sessions[id]
	return &sess, nil
}

// UpdateSessionCursor moves a session's cursor.
func (m *Memory) UpdateSessionCursor(ctx context.Context, sessionID int64, c session.Cursor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.updateCursor(sessionID, c)
}

// AppendAnswer stores a submitted record.
func (m *Memory) AppendAnswer(ctx context.Context, sessionID int64, qa answer.QuestionAnswer) error {
	return m.RunInTransaction(ctx, func(tx session.Tx) error {
		return tx.AppendAnswer(ctx, sessionID, qa)
	})
}

// ListAnswers returns a session's records in submission order.
// Returns an empty slice (not nil) if the session has no records.
func (m *Memory) ListAnswers(ctx context.Context, sessionID int64) ([]answer.QuestionAnswer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]answer.QuestionAnswer, 0, len(m.state.answers[sessionID]))
	for _, qa := range m.state.answers[sessionID] {
		out = append(out, copyRecord(qa))
	}
	return out, nil
}

// RunInTransaction applies fn to a copy of the state and keeps the copy only
// if fn succeeds.
func (m *Memory) RunInTransaction(ctx context.Context, fn func(tx session.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	staged := m.state.clone()
	if err := fn(&memTx{state: staged}); err != nil {
		return err
	}
	m.state = staged
	return nil
}

type memTx struct {
	state *memState
}

func (t *memTx) AppendAnswer(ctx context.Context, sessionID int64, qa answer.QuestionAnswer) error {
	if _, ok := t.state.sessions[sessionID]; !ok {
		return fmt.Errorf("write answer: session %d does not exist", sessionID)
	}
	for _, existing := range t.state.answers[sessionID] {
		if existing.QuestionID == qa.QuestionID {
			return fault.BadInputf("Question already submitted")
		}
	}

	stored, err := snapshotRecord(qa)
	if err != nil {
		return fmt.Errorf("write answer: %w", err)
	}
	t.state.answers[sessionID] = append(t.state.answers[sessionID], stored)
	return nil
}

func (t *memTx) UpdateSessionCursor(ctx context.Context, sessionID int64, c session.Cursor) error {
	return t.state.updateCursor(sessionID, c)
}

func (st *memState) updateCursor(sessionID int64, c session.Cursor) error {
	sess, ok := st.sessions[sessionID]
	if !ok {
		return fmt.Errorf("update session: session %d does not exist", sessionID)
	}
	sess.Completed = c.Completed
	sess.NextQuestionID = c.NextQuestionID
	st.sessions[sessionID] = sess
	return nil
}

// snapshotRecord copies qa with its snapshot detached through JSON.
func snapshotRecord(qa answer.QuestionAnswer) (answer.QuestionAnswer, error) {
	data, err := survey.MarshalQuestion(qa.QuestionSnapshot)
	if err != nil {
		return answer.QuestionAnswer{}, err
	}
	q, err := survey.UnmarshalQuestion(data)
	if err != nil {
		return answer.QuestionAnswer{}, err
	}
	stored := copyRecord(qa)
	stored.QuestionSnapshot = q
	stored.SubmittedAt = qa.SubmittedAt.UTC()
	return stored, nil
}

// copyRecord copies the mutable parts of a record's answer.
func copyRecord(qa answer.QuestionAnswer) answer.QuestionAnswer {
	if a, ok := qa.Answer.(answer.MultiChoiceAnswer); ok {
		qa.Answer = answer.MultiChoiceAnswer{OptionIDs: append([]string{}, a.OptionIDs...)}
	}
	return qa
}
