package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/apierror"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/dto"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/model"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/money"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/repository"
)

type SessionService interface {
	Start(ctx context.Context, actor Actor, req dto.StartSessionRequest) (*dto.SessionResponse, error)
	Close(ctx context.Context, actor Actor, sessionID uuid.UUID, req dto.CloseSessionRequest) (*dto.SessionResponse, error)
	GetActive(ctx context.Context, actor Actor) (*dto.SessionResponse, error)
	List(ctx context.Context, actor Actor, page, limit int) (*dto.SessionListResponse, error)
}

type sessionService struct {
	repo     repository.SessionRepository
	closings repository.ClosingRepository
}

func NewSessionService(repo repository.SessionRepository, closings repository.ClosingRepository) SessionService {
	return &sessionService{repo: repo, closings: closings}
}

// ── Start ────────────────────────────────────────────────────────────────────
// The pre-check gives the common case a friendly error; racing starts that
// both pass it hit the partial unique index on open sessions instead, and the
// resulting duplicate-key error maps to the same business rule.

func (s *sessionService) Start(ctx context.Context, actor Actor, req dto.StartSessionRequest) (*dto.SessionResponse, error) {
	opening, err := money.New(req.OpeningValue)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		CompanyID:    actor.CompanyID,
		EmployeeID:   actor.EmployeeID,
		OpenedBy:     actor.EmployeePublicID,
		OpeningValue: opening.Decimal(),
		Status:       model.SessionOpen,
		StartedAt:    time.Now(),
		Notes:        req.Notes,
	}
	session.CreatedBy = &actor.EmployeePublicID

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		_, err := s.repo.FindActiveByCompany(ctx, tx, actor.CompanyID)
		if err == nil {
			return apierror.BusinessRule("company already has an active cash session")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := s.repo.Create(ctx, tx, session); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierror.BusinessRule("company already has an active cash session")
			}
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return sessionToResponse(session), nil
}

// ── Close ────────────────────────────────────────────────────────────────────
// The Closing row and the session status flip commit together; the Closing is
// written once and never touched again.

func (s *sessionService) Close(ctx context.Context, actor Actor, sessionID uuid.UUID, req dto.CloseSessionRequest) (*dto.SessionResponse, error) {
	session, err := s.repo.FindByPublicID(ctx, sessionID, actor.CompanyID)
	if err != nil {
		return nil, apierror.NotFound("cash session not found")
	}
	if session.Status != model.SessionOpen {
		return nil, apierror.BusinessRule("cash session is not active")
	}

	cash, err := money.New(req.CountedCash)
	if err != nil {
		return nil, err
	}
	card, err := money.New(req.CountedCard)
	if err != nil {
		return nil, err
	}
	pix, err := money.New(req.CountedPix)
	if err != nil {
		return nil, err
	}
	others, err := money.New(req.CountedOthers)
	if err != nil {
		return nil, err
	}
	opening, err := money.New(session.OpeningValue)
	if err != nil {
		return nil, err
	}

	rec := Reconcile(opening, cash, card, pix, others, req.ExpectedCashMovement)

	closing := &model.Closing{
		SessionID:              session.ID,
		EmployeeID:             actor.EmployeeID,
		CountedCash:            cash.Decimal(),
		CountedCard:            card.Decimal(),
		CountedPix:             pix.Decimal(),
		CountedOthers:          others.Decimal(),
		FinalBalance:           rec.FinalBalance,
		FinalBalanceExpected:   rec.FinalBalanceExpected,
		FinalBalanceDifference: rec.FinalBalanceDifference,
		Observations:           req.Observations,
		CreatedBy:              &actor.EmployeePublicID,
	}

	now := time.Now()
	session.Status = model.SessionClosed
	session.ClosedBy = &actor.EmployeePublicID
	session.EndedAt = &now
	session.Touch(actor.EmployeePublicID)

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.closings.Create(ctx, tx, closing); err != nil {
			return err
		}
		return s.repo.Save(ctx, tx, session)
	})
	if txErr != nil {
		return nil, txErr
	}

	session.Closing = closing
	return sessionToResponse(session), nil
}

// ── GetActive / List ─────────────────────────────────────────────────────────

func (s *sessionService) GetActive(ctx context.Context, actor Actor) (*dto.SessionResponse, error) {
	session, err := s.repo.FindActiveByCompany(ctx, nil, actor.CompanyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("no active cash session")
		}
		return nil, err
	}
	return sessionToResponse(session), nil
}

func (s *sessionService) List(ctx context.Context, actor Actor, page, limit int) (*dto.SessionListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	sessions, total, err := s.repo.List(ctx, actor.CompanyID, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		items = append(items, *sessionToResponse(&sessions[i]))
	}
	return &dto.SessionListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func sessionToResponse(s *model.Session) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:           s.PublicID.String(),
		Status:       s.Status,
		OpeningValue: s.OpeningValue,
		Notes:        s.Notes,
		StartedAt:    s.StartedAt.Format(time.RFC3339),
	}
	if s.EndedAt != nil {
		t := s.EndedAt.Format(time.RFC3339)
		resp.EndedAt = &t
	}
	if s.Closing != nil {
		resp.Closing = &dto.ClosingResponse{
			ID:                     s.Closing.PublicID.String(),
			CountedCash:            s.Closing.CountedCash,
			CountedCard:            s.Closing.CountedCard,
			CountedPix:             s.Closing.CountedPix,
			CountedOthers:          s.Closing.CountedOthers,
			FinalBalance:           s.Closing.FinalBalance,
			FinalBalanceExpected:   s.Closing.FinalBalanceExpected,
			FinalBalanceDifference: s.Closing.FinalBalanceDifference,
			Observations:           s.Closing.Observations,
		}
	}
	return resp
}
