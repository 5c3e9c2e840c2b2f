package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerFeatureRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/features/players/{playerID}", handler.GetPlayerFeatures)
	mux.HandleFunc("GET /v1/features/teams/{teamID}", handler.GetTeamFeatures)
	mux.HandleFunc("GET /v1/features/stats/{statType}", handler.ListFeaturesByStatType)
	mux.HandleFunc("GET /v1/leaderboards", handler.ListLeaderboard)
	mux.HandleFunc("GET /v1/insights", handler.ListInsights)
	mux.HandleFunc("GET /v1/ratings", handler.ListRatings)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/run-pipeline", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunPipelineJob)))
}
