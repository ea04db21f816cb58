package drafting

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plenggn/TalentMatch/internal/db"
	"github.com/plenggn/TalentMatch/internal/llm"
)

type fakeStore struct {
	applicants    map[uuid.UUID]*db.Applicant
	jobs          map[uuid.UUID]*db.Job
	statusWrites  map[uuid.UUID]db.Status
	statusFailure error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		applicants:   make(map[uuid.UUID]*db.Applicant),
		jobs:         make(map[uuid.UUID]*db.Job),
		statusWrites: make(map[uuid.UUID]db.Status),
	}
}

func (s *fakeStore) GetApplicant(_ context.Context, id uuid.UUID) (*db.Applicant, error) {
	return s.applicants[id], nil
}

func (s *fakeStore) GetJob(_ context.Context, id uuid.UUID) (*db.Job, error) {
	return s.jobs[id], nil
}

func (s *fakeStore) UpdateApplicantStatus(_ context.Context, id uuid.UUID, status db.Status) error {
	if s.statusFailure != nil {
		return s.statusFailure
	}
	s.statusWrites[id] = status
	return nil
}

type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	return f.GenerateContent(context.Background(), prompt, llm.TierAdvanced)
}

func (f *fakeLLM) Close() error { return nil }

func seedApplicant(s *fakeStore) *db.Applicant {
	job := &db.Job{ID: uuid.New(), Title: "Platform Engineer"}
	s.jobs[job.ID] = job

	a := &db.Applicant{
		ID:            uuid.New(),
		FirstName:     "Mina",
		LastName:      "Park",
		JobID:         &job.ID,
		Status:        db.StatusInterviewed,
		Strengths:     []string{"Deep Postgres experience", "Strong ownership"},
		PotentialGaps: []string{"Limited Kubernetes exposure"},
	}
	s.applicants[a.ID] = a
	return a
}

func TestDraft_OfferUpdatesStatus(t *testing.T) {
	store := newFakeStore()
	applicant := seedApplicant(store)
	model := &fakeLLM{response: "Dear Mina,\n\nWe are delighted...\n\nSincerely,\nJo"}

	result, err := NewDrafter(store, model).Draft(context.Background(), applicant.ID, EmailTypeOffer, "Jo")
	require.NoError(t, err)

	assert.Equal(t, model.response, result.Draft)
	assert.Equal(t, db.StatusOffered, result.StatusUpdate)
	assert.Equal(t, db.StatusOffered, store.statusWrites[applicant.ID])
}

func TestDraft_OfferPromptGrounding(t *testing.T) {
	store := newFakeStore()
	applicant := seedApplicant(store)
	model := &fakeLLM{response: "draft"}

	_, err := NewDrafter(store, model).Draft(context.Background(), applicant.ID, EmailTypeOffer, "Jo Smith")
	require.NoError(t, err)
	require.Len(t, model.prompts, 1)

	prompt := model.prompts[0]
	assert.Contains(t, prompt, "OFFER LETTER")
	assert.Contains(t, prompt, "Mina Park")
	assert.Contains(t, prompt, "Platform Engineer")
	assert.Contains(t, prompt, "Jo Smith")
	assert.Contains(t, prompt, " - Deep Postgres experience")
	assert.NotContains(t, prompt, "Kubernetes", "offer prompts must not surface gaps")
}

func TestDraft_RejectionUsesGaps(t *testing.T) {
	store := newFakeStore()
	applicant := seedApplicant(store)
	model := &fakeLLM{response: "draft"}

	result, err := NewDrafter(store, model).Draft(context.Background(), applicant.ID, EmailTypeRejection, "")
	require.NoError(t, err)

	assert.Equal(t, db.StatusRejected, result.StatusUpdate)
	assert.Equal(t, db.StatusRejected, store.statusWrites[applicant.ID])

	prompt := model.prompts[0]
	assert.Contains(t, prompt, "REJECTION EMAIL")
	assert.Contains(t, prompt, " - Limited Kubernetes exposure")
	assert.Contains(t, prompt, "HR Team", "empty hrName falls back to the team signature")
}

func TestDraft_NoJobFallsBackToGenericPosition(t *testing.T) {
	store := newFakeStore()
	a := &db.Applicant{ID: uuid.New(), FirstName: "Solo", LastName: "Applicant"}
	store.applicants[a.ID] = a
	model := &fakeLLM{response: "draft"}

	_, err := NewDrafter(store, model).Draft(context.Background(), a.ID, EmailTypeOffer, "Jo")
	require.NoError(t, err)
	assert.Contains(t, model.prompts[0], "the position")
}

func TestDraft_UnknownApplicant(t *testing.T) {
	model := &fakeLLM{response: "draft"}
	_, err := NewDrafter(newFakeStore(), model).Draft(context.Background(), uuid.New(), EmailTypeOffer, "Jo")

	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Empty(t, model.prompts)
}

func TestDraft_EmptyDraftKeepsStatus(t *testing.T) {
	store := newFakeStore()
	applicant := seedApplicant(store)
	model := &fakeLLM{response: "   \n"}

	_, err := NewDrafter(store, model).Draft(context.Background(), applicant.ID, EmailTypeOffer, "Jo")

	var draftErr *DraftingError
	require.ErrorAs(t, err, &draftErr)
	assert.Empty(t, store.statusWrites, "a failed draft must not move the applicant")
}

func TestDraft_ModelErrorKeepsStatus(t *testing.T) {
	store := newFakeStore()
	applicant := seedApplicant(store)
	cause := errors.New("quota exceeded")
	model := &fakeLLM{err: cause}

	_, err := NewDrafter(store, model).Draft(context.Background(), applicant.ID, EmailTypeRejection, "Jo")

	var draftErr *DraftingError
	require.ErrorAs(t, err, &draftErr)
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, store.statusWrites)
}

func TestParseEmailType(t *testing.T) {
	got, ok := ParseEmailType("offer")
	assert.True(t, ok)
	assert.Equal(t, EmailTypeOffer, got)

	got, ok = ParseEmailType("rejection")
	assert.True(t, ok)
	assert.Equal(t, EmailTypeRejection, got)

	_, ok = ParseEmailType("followUp")
	assert.False(t, ok)

	_, ok = ParseEmailType("Offer")
	assert.False(t, ok, "email types are case sensitive on the wire")
}
