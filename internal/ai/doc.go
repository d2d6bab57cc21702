// Package ai wraps the external speech-to-text and chat completion providers
// behind small interfaces the pipeline stages consume. A single Client holds
// the provider connection, a shared rate limiter, and the retry policy, and
// hands out per-model Chat handles plus a Transcriber.
package ai
