package note

import (
	"net/http"

	"innkeep/infras/otel"
	"innkeep/internal/domains/note/model/dto"
	"innkeep/internal/domains/note/service"
	"innkeep/shared/constant"
	"innkeep/shared/validator"
	"innkeep/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Note
	otel    otel.Otel
}

func New(service service.Note, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/notes", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.AddNote)
		routerGroup.Patch("/{id}", handler.UpdateNote)
		routerGroup.Delete("/{id}", handler.DeleteNote)
	})

	router.Get("/rooms/{id}/notes", handler.GetRoomNotes)
}

// AddNote attaches a note to a room.
// @Summary Add a room note
// @Description Attach a free-form note to a room.
// @Tags Note
// @Accept json
// @Produce json
// @Param request body dto.AddNoteRequest true "Note details"
// @Success 201 {object} response.Data[dto.NoteResponse] "Note added successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/notes [post]
// @Security BearerAuth
func (handler *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddNote")
	defer scope.End()

	var req dto.AddNoteRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	note, err := handler.service.Add(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add room note")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Note added successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, note)
}

// UpdateNote rewrites the body of a note.
// @Summary Update a room note
// @Description Replace the body of an existing note.
// @Tags Note
// @Accept json
// @Produce json
// @Param id path string true "Note ID"
// @Param request body dto.UpdateNoteRequest true "New note body"
// @Success 200 {object} response.Data[dto.NoteResponse] "Note updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/notes/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateNote")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	var req dto.UpdateNoteRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	note, err := handler.service.Update(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update room note")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Note updated successfully by user " + user)

	response.WithJSON(w, http.StatusOK, note)
}

// DeleteNote removes a note from a room.
// @Summary Delete a room note
// @Description Delete a note by its unique identifier.
// @Tags Note
// @Produce json
// @Param id path string true "Note ID"
// @Success 200 {object} response.Message "Note deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/notes/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteNote")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete room note")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Note deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Note deleted successfully")
}

// GetRoomNotes lists the notes of a room, oldest first.
// @Summary Get notes for a room
// @Description Retrieve all notes attached to a room.
// @Tags Note
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Data[dto.GetNotesResponse] "Room notes"
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id}/notes [get]
func (handler *Handler) GetRoomNotes(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomNotes")
	defer scope.End()

	roomID := chi.URLParam(r, constant.RequestParamID)

	notes, err := handler.service.GetByRoom(ctx, roomID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room notes")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room notes retrieved successfully")

	response.WithJSON(w, http.StatusOK, notes)
}
