// Package topicmodel trains a small in-process LDA topic model over lecture
// transcripts. The trainer is deterministic for a fixed seed so repeated runs
// over the same transcript produce the same topics.
package topicmodel
