package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"socially/internal/core"
	"socially/internal/engine"
)

type actorKey struct{}

// response is the uniform envelope every operation returns: success flag,
// data on success, a short message on failure. Raw internal errors never
// reach the caller.
type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// notPerformed is the write result for anonymous callers: logged-out users
// silently cannot mutate.
var notPerformed = map[string]bool{"performed": false}

type Backend struct {
	Logger *slog.Logger

	Engine   core.Engine
	Provider core.IdentityProvider
	Resolver core.IdentityResolver
}

func (b *Backend) Init(context.Context) error {
	b.Logger = b.Logger.With("component", "api.Backend")
	return nil
}

func (b *Backend) Routes(r chi.Router) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		b.writeData(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(b.withActor)

		r.Get("/feed", b.getFeed)
		r.Post("/posts", b.createPost)
		r.Delete("/posts/{id}", b.deletePost)
		r.Post("/posts/{id}/like", b.toggleLike)
		r.Post("/posts/{id}/comments", b.createComment)
		r.Post("/users/{id}/follow", b.toggleFollow)
		r.Get("/users/suggested", b.getSuggestedUsers)
		r.Get("/users/{username}", b.getProfile)
		r.Get("/notifications", b.getNotifications)
		r.Post("/notifications/read", b.markNotificationsRead)
	})
}

// withActor resolves the session's bearer token into an internal user and
// stores the acting ID in the request context. No token, or a token the
// provider does not recognize, means an anonymous request, not a failure.
func (b *Backend) withActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)

		identity, err := b.Provider.Lookup(r.Context(), token)
		if err != nil && !errors.Is(err, core.ErrNoSession) {
			b.writeError(w, r, err)
			return
		}

		actor, err := b.Resolver.Resolve(r.Context(), identity)
		if err != nil {
			b.writeError(w, r, err)
			return
		}

		actorID := ""
		if actor != nil {
			actorID = actor.ID
		}

		ctx := context.WithValue(r.Context(), actorKey{}, actorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorID(ctx context.Context) string {
	id, _ := ctx.Value(actorKey{}).(string)
	return id
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

func (b *Backend) getFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := b.Engine.Feed(r.Context(), actorID(r.Context()))
	if err != nil {
		b.writeError(w, r, err)
		return
	}
	b.writeData(w, http.StatusOK, feed)
}

func (b *Backend) createPost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
		Image   string `json:"image"`
	}
	if !b.decode(w, r, &req) {
		return
	}

	post, err := b.Engine.CreatePost(r.Context(), actorID(r.Context()), req.Content, req.Image)
	if err != nil {
		b.writeError(w, r, err)
		return
	}
	if post == nil {
		b.writeData(w, http.StatusOK, notPerformed)
		return
	}
	b.writeData(w, http.StatusCreated, post)
}

func (b *Backend) deletePost(w http.ResponseWriter, r *http.Request) {
	actor := actorID(r.Context())

	err := b.Engine.DeletePost(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		b.writeError(w, r, err)
		return
	}
	if actor == "" {
		b.writeData(w, http.StatusOK, notPerformed)
		return
	}
	b.writeData(w, http.StatusOK, map[string]bool{"performed": true})
}

func (b *Backend) toggleLike(w http.ResponseWriter, r *http.Request) {
	state, err := b.Engine.ToggleLike(r.Context(), actorID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		b.writeError(w, r, err)
		return
	}
	b.writeData(w, http.StatusOK, state)
}

func (b *Backend) createComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if !b.decode(w, r, &req) {
		return
	}

	comment, err := b.Engine.CreateComment(r.Context(), actorID(r.Context()), chi.URLParam(r, "id"), req.Content)
	if err != nil {
		b.writeError(w, r, err)
		return
	}
	if comment == nil {
		b.writeData(w, http.StatusOK, notPerformed)
		return
	}
	b.writeData(w, http.StatusCreated, comment)
}

func (b *Backend) toggleFollow(w http.ResponseWriter, r *http.Request) {
	state, err := b.Engine.ToggleFollow(r.Context(), actorID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		b.writeError(w, r, err)
		return
	}
	b.writeData(w, http.StatusOK, state)
}

func (b *Backend) getSuggestedUsers(w http.ResponseWriter, r *http.Request) {
	suggested, err := b.Engine.SuggestedUsers(r.Context(), actorID(r.Context()))
	if err != nil {
		b.writeError(w, r, err)
		return
	}
	b.writeData(w, http.StatusOK, suggested)
}

func (b *Backend) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := b.Engine.Profile(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		b.writeError(w, r, err)
		return
	}
	b.writeData(w, http.StatusOK, profile)
}

func (b *Backend) getNotifications(w http.ResponseWriter, r *http.Request) {
	list, err := b.Engine.Notifications(r.Context(), actorID(r.Context()))
	if err != nil {
		b.writeError(w, r, err)
		return
	}
	b.writeData(w, http.StatusOK, list)
}

func (b *Backend) markNotificationsRead(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs    []string `json:"ids"`
		UserID string   `json:"userId"`
	}
	if !b.decode(w, r, &req) {
		return
	}

	actor := actorID(r.Context())

	// A caller-supplied user ID must match the session-derived actor.
	if req.UserID != "" && !engine.CanActOnBehalfOf(actor, req.UserID) {
		b.writeError(w, r, core.ErrUnauthorized)
		return
	}

	if err := b.Engine.MarkNotificationsRead(r.Context(), actor, req.IDs); err != nil {
		b.writeError(w, r, err)
		return
	}
	b.writeData(w, http.StatusOK, map[string]bool{"performed": actor != ""})
}

func (b *Backend) decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		b.write(w, http.StatusBadRequest, response{Success: false, Error: "invalid request body"})
		return false
	}
	return true
}

func (b *Backend) writeData(w http.ResponseWriter, status int, data any) {
	b.write(w, status, response{Success: true, Data: data})
}

func (b *Backend) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, core.ErrNoSession):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, core.ErrUnauthorized):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, core.ErrInvalidOperation):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case errors.Is(err, core.ErrConflictRetry):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, core.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
		message = core.ErrStoreUnavailable.Error()
	}

	b.Logger.Error("operation failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	b.write(w, status, response{Success: false, Error: message})
}

func (b *Backend) write(w http.ResponseWriter, status int, resp response) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		b.Logger.Error("failed to encode response", "error", err)
	}
}
