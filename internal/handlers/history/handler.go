package history

import (
	"net/http"

	"innkeep/infras/otel"
	"innkeep/internal/domains/history/model"
	"innkeep/internal/domains/history/service"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.History
	otel    otel.Otel
}

func New(service service.History, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/history", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetHistory)
	})
}

// GetHistory retrieves audit entries for the activity feed.
// @Summary Get room history
// @Description Retrieve audit entries, newest first, with optional filtering by room or hotel.
// @Tags History
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param room_id query string false "Filter by room"
// @Param hotel_id query string false "Filter by hotel"
// @Param change_type query string false "Filter by change type"
// @Param actor_id query string false "Filter by actor"
// @Success 200 {object} response.Data[dto.GetAuditEntriesResponse] "Audit entries"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/history [get]
func (handler *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHistory")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
	}

	if roomID := r.URL.Query().Get(model.FieldRoomID); roomID != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldRoomID,
			Operator: gDto.FilterOperatorEq,
			Value:    roomID,
			Table:    model.TableName,
		})
	}

	if hotelID := r.URL.Query().Get(model.FieldHotelID); hotelID != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldHotelID,
			Operator: gDto.FilterOperatorEq,
			Value:    hotelID,
			Table:    model.TableName,
		})
	}

	if changeType := r.URL.Query().Get(model.FieldChangeType); changeType != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldChangeType,
			Operator: gDto.FilterOperatorEq,
			Value:    changeType,
			Table:    model.TableName,
		})
	}

	if actorID := r.URL.Query().Get(model.FieldActorID); actorID != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActorID,
			Operator: gDto.FilterOperatorEq,
			Value:    actorID,
			Table:    model.TableName,
		})
	}

	entries, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get history")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("History retrieved successfully")

	response.WithJSON(w, http.StatusOK, entries)
}
