package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/apierror"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/dto"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/model"
)

func newSessionFixture() (SessionService, *fakeSessionRepo, *fakeClosingRepo, Actor) {
	repo := newFakeSessionRepo()
	closings := newFakeClosingRepo()
	actor := Actor{EmployeeID: 1, EmployeePublicID: uuid.New(), CompanyID: 1, Role: "supervisor"}
	return NewSessionService(repo, closings), repo, closings, actor
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── Start ────────────────────────────────────────────────────────────────────

func TestStartSession(t *testing.T) {
	svc, _, _, actor := newSessionFixture()

	resp, err := svc.Start(context.Background(), actor, dto.StartSessionRequest{OpeningValue: d("100.00")})
	require.NoError(t, err)
	assert.Equal(t, model.SessionOpen, resp.Status)
	assert.Equal(t, "100.00", resp.OpeningValue.StringFixed(2))
	assert.NotEmpty(t, resp.StartedAt)
	assert.Nil(t, resp.EndedAt)
}

func TestStartSessionDuplicate(t *testing.T) {
	svc, _, _, actor := newSessionFixture()

	_, err := svc.Start(context.Background(), actor, dto.StartSessionRequest{OpeningValue: d("100.00")})
	require.NoError(t, err)

	_, err = svc.Start(context.Background(), actor, dto.StartSessionRequest{OpeningValue: d("50.00")})
	assert.Equal(t, apierror.KindBusinessRule, apierror.KindOf(err))
	assert.ErrorContains(t, err, "already has an active cash session")
}

func TestStartSessionRacingInsert(t *testing.T) {
	svc, repo, _, actor := newSessionFixture()

	// Two racing starts can both pass the active-session pre-check; the
	// loser's insert is rejected by the unique index on open sessions and
	// must surface as the same business-rule error, not a raw DB error.
	repo.dupOnCreate = true
	_, err := svc.Start(context.Background(), actor, dto.StartSessionRequest{OpeningValue: d("100.00")})
	assert.Equal(t, apierror.KindBusinessRule, apierror.KindOf(err))
	assert.ErrorContains(t, err, "already has an active cash session")
}

func TestStartSessionOtherCompanyUnaffected(t *testing.T) {
	svc, _, _, actor := newSessionFixture()
	other := Actor{EmployeeID: 2, EmployeePublicID: uuid.New(), CompanyID: 2, Role: "supervisor"}

	_, err := svc.Start(context.Background(), actor, dto.StartSessionRequest{OpeningValue: d("100.00")})
	require.NoError(t, err)

	// Per-company invariant: a different company opens freely.
	_, err = svc.Start(context.Background(), other, dto.StartSessionRequest{OpeningValue: d("100.00")})
	require.NoError(t, err)
}

func TestStartSessionNegativeOpening(t *testing.T) {
	svc, _, _, actor := newSessionFixture()

	_, err := svc.Start(context.Background(), actor, dto.StartSessionRequest{OpeningValue: d("-1.00")})
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestStartSessionSubCentOpening(t *testing.T) {
	svc, _, _, actor := newSessionFixture()

	_, err := svc.Start(context.Background(), actor, dto.StartSessionRequest{OpeningValue: d("100.001")})
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

// ── Close ────────────────────────────────────────────────────────────────────

func TestCloseSession(t *testing.T) {
	svc, _, closings, actor := newSessionFixture()

	started, err := svc.Start(context.Background(), actor, dto.StartSessionRequest{OpeningValue: d("100.00")})
	require.NoError(t, err)

	resp, err := svc.Close(context.Background(), actor, uuid.MustParse(started.ID), dto.CloseSessionRequest{
		CountedCash:          d("350.00"),
		CountedCard:          d("120.00"),
		CountedPix:           d("30.00"),
		CountedOthers:        d("0"),
		ExpectedCashMovement: d("250.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, model.SessionClosed, resp.Status)
	require.NotNil(t, resp.EndedAt)
	require.NotNil(t, resp.Closing)
	assert.Equal(t, "500.00", resp.Closing.FinalBalance.StringFixed(2))
	assert.Equal(t, "350.00", resp.Closing.FinalBalanceExpected.StringFixed(2))
	assert.Equal(t, "150.00", resp.Closing.FinalBalanceDifference.StringFixed(2))

	// Exactly one closing row, bound to the session.
	require.Len(t, closings.closings, 1)
	assert.EqualValues(t, 1, closings.closings[0].SessionID)
}

func TestCloseSessionShortage(t *testing.T) {
	svc, _, _, actor := newSessionFixture()

	started, err := svc.Start(context.Background(), actor, dto.StartSessionRequest{OpeningValue: d("100.00")})
	require.NoError(t, err)

	resp, err := svc.Close(context.Background(), actor, uuid.MustParse(started.ID), dto.CloseSessionRequest{
		CountedCash:          d("90.00"),
		CountedCard:          d("0"),
		CountedPix:           d("0"),
		CountedOthers:        d("0"),
		ExpectedCashMovement: d("0"),
	})
	require.NoError(t, err)
	assert.Equal(t, "-10.00", resp.Closing.FinalBalanceDifference.StringFixed(2))
}

func TestCloseSessionTwice(t *testing.T) {
	svc, _, _, actor := newSessionFixture()

	started, err := svc.Start(context.Background(), actor, dto.StartSessionRequest{OpeningValue: d("100.00")})
	require.NoError(t, err)
	id := uuid.MustParse(started.ID)

	req := dto.CloseSessionRequest{
		CountedCash: d("100.00"), CountedCard: d("0"), CountedPix: d("0"), CountedOthers: d("0"),
	}
	_, err = svc.Close(context.Background(), actor, id, req)
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), actor, id, req)
	assert.Equal(t, apierror.KindBusinessRule, apierror.KindOf(err))
	assert.ErrorContains(t, err, "not active")
}

func TestCloseSessionNegativeCount(t *testing.T) {
	svc, _, _, actor := newSessionFixture()

	started, err := svc.Start(context.Background(), actor, dto.StartSessionRequest{OpeningValue: d("100.00")})
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), actor, uuid.MustParse(started.ID), dto.CloseSessionRequest{
		CountedCash: d("-5.00"), CountedCard: d("0"), CountedPix: d("0"), CountedOthers: d("0"),
	})
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestCloseSessionNotFound(t *testing.T) {
	svc, _, _, actor := newSessionFixture()

	_, err := svc.Close(context.Background(), actor, uuid.New(), dto.CloseSessionRequest{
		CountedCash: d("0"), CountedCard: d("0"), CountedPix: d("0"), CountedOthers: d("0"),
	})
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

// ── GetActive / List ─────────────────────────────────────────────────────────

func TestGetActiveSession(t *testing.T) {
	svc, _, _, actor := newSessionFixture()

	_, err := svc.GetActive(context.Background(), actor)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))

	started, err := svc.Start(context.Background(), actor, dto.StartSessionRequest{OpeningValue: d("100.00")})
	require.NoError(t, err)

	active, err := svc.GetActive(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, started.ID, active.ID)
}

func TestListSessions(t *testing.T) {
	svc, _, _, actor := newSessionFixture()

	started, err := svc.Start(context.Background(), actor, dto.StartSessionRequest{OpeningValue: d("100.00")})
	require.NoError(t, err)
	_, err = svc.Close(context.Background(), actor, uuid.MustParse(started.ID), dto.CloseSessionRequest{
		CountedCash: d("100.00"), CountedCard: d("0"), CountedPix: d("0"), CountedOthers: d("0"),
	})
	require.NoError(t, err)
	_, err = svc.Start(context.Background(), actor, dto.StartSessionRequest{OpeningValue: d("80.00")})
	require.NoError(t, err)

	list, err := svc.List(context.Background(), actor, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Total)
	assert.Len(t, list.Data, 2)
}
