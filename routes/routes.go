package routes

import (
	"net/http"

	"github.com/Dosada05/club-manager/handlers"
	"github.com/Dosada05/club-manager/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Tournament  *handlers.TournamentHandler
	Participant *handlers.ParticipantHandler
	Draw        *handlers.DrawHandler
	Match       *handlers.MatchHandler
	Advancement *handlers.AdvancementHandler
	Standings   *handlers.StandingsHandler
	StageRule   *handlers.StageRuleHandler
	WebSocket   *handlers.WebSocketHandler
}

// NewRouter wires the public read API, the organizer write API and the
// per-tournament websocket stream.
func NewRouter(h Handlers, auth *middleware.Authenticator) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.List)
		r.Get("/{tournamentID}", h.Tournament.Get)
		r.Get("/{tournamentID}/participants", h.Participant.List)
		r.Get("/{tournamentID}/matches", h.Match.List)
		r.Get("/{tournamentID}/draws", h.Draw.ListDraws)
		r.Get("/{tournamentID}/groups/{groupID}/standings", h.Standings.GetGroupStandings)
		r.Get("/{tournamentID}/stage-rules", h.StageRule.Get)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.Authorize("organizer", "admin"))

			r.Post("/", h.Tournament.Create)
			r.Put("/{tournamentID}/status", h.Tournament.UpdateStatus)
			r.Put("/{tournamentID}/lock", h.Tournament.SetParticipantsLocked)
			r.Post("/{tournamentID}/logo", h.Tournament.UploadLogo)
			r.Delete("/{tournamentID}", h.Tournament.Delete)

			r.Post("/{tournamentID}/participants", h.Participant.Register)

			r.Post("/{tournamentID}/draws/groups", h.Draw.AutoGenerateGroups)
			r.Post("/{tournamentID}/draws/bracket", h.Draw.GenerateBracket)
			r.Post("/{tournamentID}/groups/{groupID}/matches", h.Draw.GenerateGroupMatches)

			r.Put("/{tournamentID}/stage-rules", h.StageRule.Upsert)
		})
	})

	r.Route("/participants", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.Authorize("organizer", "admin"))

			r.Put("/{participantID}/check-in", h.Participant.CheckIn)
			r.Put("/{participantID}/withdraw", h.Participant.Withdraw)
			r.Post("/{participantID}/replace", h.Advancement.Replace)
			r.Post("/{participantID}/advance", h.Advancement.Advance)
		})
	})

	r.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", h.Match.Get)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.Authorize("organizer", "admin"))

			r.Put("/{matchID}/result", h.Match.RecordResult)
		})
	})

	r.Route("/draws", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.Authorize("organizer", "admin"))

			r.Post("/{publicID}/apply", h.Draw.ApplyDraw)
			r.Post("/{publicID}/cancel", h.Draw.CancelDraw)
		})
	})

	r.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	return r
}
