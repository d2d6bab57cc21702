// Package workflow advances lectures through the configured processing
// stages.
//
// The Manager polls the lecture store, reclaims stale work via heartbeats,
// and feeds lectures into registered stage handlers (transcriber, analyzer,
// topic modeler, notes generator) while capturing progress and failure
// metadata. It also aggregates queue stats, calls stage health checks, and
// emits notifications when a lecture finishes or fails.
//
// The pipeline runs two independent lanes: transcription (pending uploads
// waiting on the speech-to-text provider) and enrichment (every stage that
// works from an existing transcript). Each lane polls for lectures matching
// its statuses and processes them independently, so a long transcription of
// lecture B never blocks analysis of the already-transcribed lecture A.
//
// Add new lifecycle stages by extending StageSet, updating the lecture
// status enums, and teaching the manager how to transition lectures; this
// package is the authoritative home for that coordination logic.
package workflow
