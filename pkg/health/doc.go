// Package health serves liveness and readiness probes.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "smtp": sender.Ping,
//	}))
//
// Readiness checks run in parallel under a shared timeout. Responses are plain
// text ("OK" / "Service Unavailable") unless the client asks for JSON with
// Accept: application/json or ?format=json.
//
// Verify runs the same checks outside HTTP, for CLI preflight commands.
package health
