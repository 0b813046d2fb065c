package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/internal/domains/membership/model"
	"innkeep/internal/domains/membership/model/dto"
	"innkeep/internal/domains/membership/repository"
	"innkeep/internal/events"
	"innkeep/shared"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/timezone"
)

// Admission runs the workforce admission flow. A join request and its
// pending membership are created together and only move together: the
// request decision and the membership status change commit in one
// transaction, so no observer ever sees them disagree.
type Admission interface {
	CreateJoinRequest(ctx context.Context, req dto.CreateJoinRequestRequest) (dto.JoinRequestResponse, error)
	Approve(ctx context.Context, id string, req dto.ApproveJoinRequestRequest) (dto.JoinRequestResponse, error)
	Reject(ctx context.Context, id string) (dto.JoinRequestResponse, error)
	GetJoinRequest(ctx context.Context, id string) (dto.JoinRequestResponse, error)
	GetJoinRequests(ctx context.Context, hotelID string, params gDto.QueryParams) (dto.GetJoinRequestsResponse, error)
	GetMemberships(ctx context.Context, hotelID string, params gDto.QueryParams) (dto.GetMembershipsResponse, error)
}

type serviceImpl struct {
	requests    repository.JoinRequest
	memberships repository.Membership
	notifier    events.AdmissionNotifier
	db          postgres.TxRunner
	cfg         *config.Config
	otel        otel.Otel
}

func New(
	requests repository.JoinRequest,
	memberships repository.Membership,
	notifier events.AdmissionNotifier,
	db postgres.TxRunner,
	cfg *config.Config,
	otel otel.Otel,
) Admission {
	return &serviceImpl{
		requests:    requests,
		memberships: memberships,
		notifier:    notifier,
		db:          db,
		cfg:         cfg,
		otel:        otel,
	}
}

func (s *serviceImpl) CreateJoinRequest(ctx context.Context, req dto.CreateJoinRequestRequest) (res dto.JoinRequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateJoinRequest")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := actorFrom(ctx)
	if err != nil {
		return res, err
	}

	duplicate, err := s.requests.Exist(ctx, pendingRequestFilter(req.HotelID, req.UserID))
	if err != nil {
		log.Error().Err(err).Msg("failed to check for pending join request")

		return res, fmt.Errorf("failed to check for pending join request: %w", err)
	}

	if duplicate {
		return res, failure.Conflict("a pending join request already exists for this worker and hotel") // nolint:wrapcheck
	}

	request, membership := req.ToModels(actor)

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.requests.InsertTx(ctx, tx, request); err != nil {
			return fmt.Errorf("failed to insert join request: %w", err)
		}

		if err := s.memberships.InsertTx(ctx, tx, membership); err != nil {
			return fmt.Errorf("failed to insert pending membership: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create join request")

		return res, err
	}

	s.notify(ctx, events.AdmissionEvent{
		RequestID:  request.ID,
		HotelID:    request.HotelID,
		UserID:     request.UserID,
		Status:     string(request.Status),
		OccurredAt: timezone.Now(),
	})

	res.FromModel(request)

	return res, nil
}

// Approve decides a pending request and promotes its paired membership
// with the granted role. A decided request is immutable.
func (s *serviceImpl) Approve(ctx context.Context, id string, req dto.ApproveJoinRequestRequest) (res dto.JoinRequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ApproveJoinRequest")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !req.Role.Valid() {
		return res, failure.BadRequestFromString(fmt.Sprintf("unknown membership role: %s", req.Role)) // nolint:wrapcheck
	}

	return s.decide(ctx, id, model.JoinRequestAccepted, req.Role)
}

func (s *serviceImpl) Reject(ctx context.Context, id string) (dto.JoinRequestResponse, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RejectJoinRequest")
	defer scope.End()

	return s.decide(ctx, id, model.JoinRequestRejected, constant.Empty)
}

func (s *serviceImpl) decide(ctx context.Context, id string, decision model.JoinRequestStatus, role model.MembershipRole) (res dto.JoinRequestResponse, err error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return res, err
	}

	request, err := s.loadRequest(ctx, id)
	if err != nil {
		return res, err
	}

	if request.Status.IsTerminal() {
		return res, failure.Conflict("join request has already been decided") // nolint:wrapcheck
	}

	membership, err := s.pairedMembership(ctx, request)
	if err != nil {
		return res, err
	}

	now := timezone.Now()

	requestFields := map[string]any{
		model.FieldStatus:        decision,
		model.FieldDecidedBy:     actor,
		model.FieldDecidedAt:     now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: actor,
	}

	membershipFields := map[string]any{
		model.FieldStatus:        model.MembershipStatusFor(decision),
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: actor,
	}

	if decision == model.JoinRequestAccepted {
		membershipFields[model.FieldRole] = role
	}

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.requests.UpdateTx(ctx, tx, requestFields, shared.FilterByID(id, model.FieldID, model.JoinRequestTableName)); err != nil {
			return fmt.Errorf("failed to update join request: %w", err)
		}

		if err := s.memberships.UpdateTx(ctx, tx, membershipFields, shared.FilterByID(membership.ID, model.FieldID, model.MembershipTableName)); err != nil {
			return fmt.Errorf("failed to update membership: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("requestID", id).Msg("failed to decide join request")

		return res, err
	}

	s.notify(ctx, events.AdmissionEvent{
		RequestID:  request.ID,
		HotelID:    request.HotelID,
		UserID:     request.UserID,
		Status:     string(decision),
		Role:       string(role),
		DecidedBy:  actor,
		OccurredAt: now,
	})

	request.Status = decision
	request.DecidedBy = &actor
	request.DecidedAt = &now
	res.FromModel(request)

	return res, nil
}

func (s *serviceImpl) GetJoinRequest(ctx context.Context, id string) (res dto.JoinRequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetJoinRequest")
	defer scope.End()
	defer scope.TraceIfError(err)

	request, err := s.loadRequest(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(request)

	return res, nil
}

func (s *serviceImpl) GetJoinRequests(ctx context.Context, hotelID string, params gDto.QueryParams) (res dto.GetJoinRequestsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetJoinRequests")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(hotelID, model.FieldHotelID, model.JoinRequestTableName)

	total, err := s.requests.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count join requests")

		return res, fmt.Errorf("failed to count join requests: %w", err)
	}

	requests, err := s.requests.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get join requests")

		return res, fmt.Errorf("failed to get join requests: %w", err)
	}

	res.FromModels(requests, total)

	return res, nil
}

func (s *serviceImpl) GetMemberships(ctx context.Context, hotelID string, params gDto.QueryParams) (res dto.GetMembershipsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMemberships")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(hotelID, model.FieldHotelID, model.MembershipTableName)

	total, err := s.memberships.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count memberships")

		return res, fmt.Errorf("failed to count memberships: %w", err)
	}

	memberships, err := s.memberships.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get memberships")

		return res, fmt.Errorf("failed to get memberships: %w", err)
	}

	res.FromModels(memberships, total)

	return res, nil
}

func (s *serviceImpl) loadRequest(ctx context.Context, id string) (model.JoinRequest, error) {
	request, err := s.requests.Get(ctx, shared.FilterByID(id, model.FieldID, model.JoinRequestTableName))
	if err != nil {
		log.Error().Err(err).Str("requestID", id).Msg("failed to get join request")

		return request, fmt.Errorf("failed to get join request: %w", err)
	}

	if request.ID == constant.Empty {
		return request, failure.NotFound("join request not found") // nolint:wrapcheck
	}

	return request, nil
}

// pairedMembership finds the pending membership created alongside a
// request. Its absence means the pair was corrupted outside this
// service, which is a server fault rather than a caller error.
func (s *serviceImpl) pairedMembership(ctx context.Context, request model.JoinRequest) (model.Membership, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Table:    model.MembershipTableName,
				Field:    model.FieldHotelID,
				Operator: gDto.FilterOperatorEq,
				Value:    request.HotelID,
			},
			gDto.Filter{
				Table:    model.MembershipTableName,
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    request.UserID,
			},
			gDto.Filter{
				Table:    model.MembershipTableName,
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    model.MembershipPending,
			},
		},
	}

	membership, err := s.memberships.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("requestID", request.ID).Msg("failed to get paired membership")

		return membership, fmt.Errorf("failed to get paired membership: %w", err)
	}

	if membership.ID == constant.Empty {
		return membership, failure.InternalError(errors.New("join request has no paired membership")) // nolint:wrapcheck
	}

	return membership, nil
}

func (s *serviceImpl) notify(ctx context.Context, event events.AdmissionEvent) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.notifier.NotifyAdmission(c, event); err != nil {
			log.Error().Err(err).Str("requestID", event.RequestID).Msg("failed to publish admission event")
		}
	}()
}

func pendingRequestFilter(hotelID, userID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Table:    model.JoinRequestTableName,
				Field:    model.FieldHotelID,
				Operator: gDto.FilterOperatorEq,
				Value:    hotelID,
			},
			gDto.Filter{
				Table:    model.JoinRequestTableName,
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
			},
			gDto.Filter{
				Table:    model.JoinRequestTableName,
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    model.JoinRequestPending,
			},
		},
	}
}

func actorFrom(ctx context.Context) (string, error) {
	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if actor == constant.Empty {
		return constant.Empty, failure.NotAuthenticated // nolint:wrapcheck
	}

	return actor, nil
}
