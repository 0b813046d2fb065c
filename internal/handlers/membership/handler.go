package membership

import (
	"net/http"

	"innkeep/infras/otel"
	"innkeep/internal/domains/membership/model/dto"
	"innkeep/internal/domains/membership/service"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/validator"
	"innkeep/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Admission
	otel    otel.Otel
}

func New(service service.Admission, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/join-requests", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateJoinRequest)
		routerGroup.Get("/{id}", handler.GetJoinRequestByID)
		routerGroup.Post("/{id}/approve", handler.ApproveJoinRequest)
		routerGroup.Post("/{id}/reject", handler.RejectJoinRequest)
	})

	router.Get("/hotels/{id}/join-requests", handler.GetHotelJoinRequests)
	router.Get("/hotels/{id}/memberships", handler.GetHotelMemberships)
}

// CreateJoinRequest submits a request to join a hotel workforce.
// @Summary Create a join request
// @Description Submit a join request. A pending membership is created alongside it.
// @Tags Membership
// @Accept json
// @Produce json
// @Param request body dto.CreateJoinRequestRequest true "Join request details"
// @Success 201 {object} response.Data[dto.JoinRequestResponse] "Join request created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/join-requests [post]
// @Security BearerAuth
func (handler *Handler) CreateJoinRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateJoinRequest")
	defer scope.End()

	var req dto.CreateJoinRequestRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	request, err := handler.service.CreateJoinRequest(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create join request")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Join request created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, request)
}

// GetJoinRequestByID retrieves a join request by its ID.
// @Summary Get a join request by ID
// @Description Retrieve a join request by its unique identifier.
// @Tags Membership
// @Produce json
// @Param id path string true "Join request ID"
// @Success 200 {object} response.Data[dto.JoinRequestResponse] "Join request details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/join-requests/{id} [get]
func (handler *Handler) GetJoinRequestByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetJoinRequestByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	request, err := handler.service.GetJoinRequest(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get join request by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Join request retrieved successfully")

	response.WithJSON(w, http.StatusOK, request)
}

// ApproveJoinRequest accepts a pending join request.
// @Summary Approve a join request
// @Description Accept a pending request and promote its membership with the granted role.
// @Tags Membership
// @Accept json
// @Produce json
// @Param id path string true "Join request ID"
// @Param request body dto.ApproveJoinRequestRequest true "Granted role"
// @Success 200 {object} response.Data[dto.JoinRequestResponse] "Join request approved"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/join-requests/{id}/approve [post]
// @Security BearerAuth
func (handler *Handler) ApproveJoinRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ApproveJoinRequest")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	var req dto.ApproveJoinRequestRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	request, err := handler.service.Approve(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to approve join request")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Join request approved by user " + user)

	response.WithJSON(w, http.StatusOK, request)
}

// RejectJoinRequest declines a pending join request.
// @Summary Reject a join request
// @Description Reject a pending request and mark its membership rejected.
// @Tags Membership
// @Produce json
// @Param id path string true "Join request ID"
// @Success 200 {object} response.Data[dto.JoinRequestResponse] "Join request rejected"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/join-requests/{id}/reject [post]
// @Security BearerAuth
func (handler *Handler) RejectJoinRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RejectJoinRequest")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	request, err := handler.service.Reject(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reject join request")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Join request rejected by user " + user)

	response.WithJSON(w, http.StatusOK, request)
}

// GetHotelJoinRequests lists join requests for a hotel.
// @Summary Get join requests for a hotel
// @Description Retrieve join requests targeting a hotel, with pagination.
// @Tags Membership
// @Produce json
// @Param id path string true "Hotel ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetJoinRequestsResponse] "Join requests"
// @Failure 500 {object} response.Error
// @Router /v1/hotels/{id}/join-requests [get]
// @Security BearerAuth
func (handler *Handler) GetHotelJoinRequests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHotelJoinRequests")
	defer scope.End()

	hotelID := chi.URLParam(r, constant.RequestParamID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	requests, err := handler.service.GetJoinRequests(ctx, hotelID, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get join requests")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Join requests retrieved successfully")

	response.WithJSON(w, http.StatusOK, requests)
}

// GetHotelMemberships lists the workforce of a hotel.
// @Summary Get memberships for a hotel
// @Description Retrieve hotel memberships, with pagination.
// @Tags Membership
// @Produce json
// @Param id path string true "Hotel ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetMembershipsResponse] "Memberships"
// @Failure 500 {object} response.Error
// @Router /v1/hotels/{id}/memberships [get]
// @Security BearerAuth
func (handler *Handler) GetHotelMemberships(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHotelMemberships")
	defer scope.End()

	hotelID := chi.URLParam(r, constant.RequestParamID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	memberships, err := handler.service.GetMemberships(ctx, hotelID, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get memberships")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Memberships retrieved successfully")

	response.WithJSON(w, http.StatusOK, memberships)
}
