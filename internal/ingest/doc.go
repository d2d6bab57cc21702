// Package ingest watches the drop directory for recorded audio.
//
// Files copied into ingest_dir are picked up once their size stops changing,
// moved into the upload workspace, and registered as pending lectures so the
// pipeline processes them exactly like HTTP uploads. Non-audio files are
// ignored. A startup scan catches files dropped while the daemon was down.
package ingest
