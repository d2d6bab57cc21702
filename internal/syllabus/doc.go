// Package syllabus turns an uploaded course syllabus (PDF or DOCX) into a
// day-by-day instructional roadmap and reconciles it against the topics the
// completed lectures actually covered. Each run is persisted as a timestamped
// JSON result file; the newest one backs the coverage endpoints.
package syllabus
