package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, opts RouterOptions) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if opts.MetricsEnabled {
		mux.Handle("GET /metrics", metricsHandler())
	}
	if !opts.SwaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	player := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, RequireAuth(verifier, fn))
	}

	player("GET /v1/contests/{contestID}/roster", handler.GetMyRoster)
	player("PUT /v1/contests/{contestID}/roster", handler.ReplaceRoster)
	player("POST /v1/contests/{contestID}/picks", handler.AddPick)
	player("DELETE /v1/contests/{contestID}/picks/{skaterID}", handler.RemovePick)
	player("GET /v1/contests/{contestID}/entitlements", handler.ListMyEntitlements)
	player("POST /v1/contests/{contestID}/replacements", handler.ConsumeReplacement)
	player("GET /v1/contests/{contestID}/entries", handler.ListContestEntries)
	player("GET /v1/contests/{contestID}/results", handler.ListContestResults)
	player("GET /v1/standings", handler.ListStandings)
	player("GET /v1/standings/me", handler.GetMyStanding)
}

func registerOperatorRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	operator := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, RequireAuth(verifier, RequireOperator(fn)))
	}

	operator("POST /v1/admin/contests/{contestID}/withdrawals", handler.WithdrawSkater)
	operator("POST /v1/admin/contests/{contestID}/results", handler.ImportResults)
	operator("POST /v1/admin/contests/{contestID}/recalculate", handler.RecalculateContest)
	operator("PUT /v1/admin/contests/{contestID}/status", handler.SetContestStatus)
	operator("POST /v1/admin/contests/{contestID}/entries", handler.EnterSkater)
	operator("POST /v1/admin/contests/{contestID}/entries/propagate-prices", handler.PropagateEntryPrices)
	operator("POST /v1/admin/skaters/reprice", handler.RepriceSkaters)
}
