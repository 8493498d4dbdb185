package httpapi

import "net/http"

func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{}.Health,
	}))

	ah := AdsHandler{DB: d.DB}
	mux.HandleFunc("/ads", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ah.List,
	}))

	rh := &RunsHandler{DB: d.DB, RunOnce: d.RunOnce, Hub: d.Hub}
	mux.HandleFunc("/runs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.List,
	}))
	mux.HandleFunc("/runs/trigger", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: rh.Trigger,
	}))

	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}
