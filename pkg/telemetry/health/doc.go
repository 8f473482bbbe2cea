// Package health provides the liveness, readiness and version endpoints of
// the mdnav query API.
//
// /health answers as long as the process is up. /ready runs every
// registered check (the history store ping when history is enabled) and
// answers 503 if one fails or times out. /version reports build
// information.
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("history", health.PingCheck(store))
//	router.Get("/health", checker.LivenessHandler())
//	router.Get("/ready", checker.ReadinessHandler())
package health
