// Package textutil provides text helpers for topic comparison and filename
// handling.
//
// The primary use cases are:
//   - Canonicalizing syllabus and lecture topic strings for set comparison
//   - Computing cosine similarity between topic fingerprints to surface
//     near-miss coverage matches
//   - Sanitizing uploaded filenames for safe filesystem use
//
// Fingerprints use term frequency vectors normalized for efficient comparison.
// The tokenization process lowercases text, splits on non-alphanumeric
// characters, and filters tokens shorter than 3 characters.
package textutil
