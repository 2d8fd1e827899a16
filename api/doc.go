// Package api defines the request and response types of the VoiceBridge
// HTTP gateway.
//
// # API Overview
//
// VoiceBridge exposes an OpenAI-style speech surface backed by ElevenLabs:
//   - POST /v1/audio/speech: text-to-speech, returns audio bytes
//   - GET/POST /v1/voices, GET/DELETE /v1/voices/{voice_id}: voice management
//   - GET /v1/usage: cumulative synthesis usage and cost
//   - DELETE /v1/usage: return the summary and reset it
//   - /health, /healthz, /ready, /version: health monitoring
//
// Prometheus metrics are served on the separate metrics port at /metrics.
//
// # Authentication
//
// When server.api_keys is configured, endpoints require the X-API-Key header:
//
//	X-API-Key: your-api-key
//
// When server.jwt is configured it takes precedence over API keys: every
// endpoint except the health endpoints requires a Bearer token signed with HS256
// or RS256.
//
// # Base URL
//
// The default base URL for the API is:
//
//	http://localhost:8080
package api
