// Package httpapi serves the dashboard and operator HTTP surface.
//
// The public routes mirror the analytics product contract: audio upload,
// lecture status and notes retrieval, the analytics family, and syllabus
// tracking. Error payloads use {"detail": "..."} so existing dashboard
// clients keep working. An /admin group exposes queue management, workflow
// status, and log tailing for the CLI.
package httpapi
