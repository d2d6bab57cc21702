package workflow

import "lectern/internal/lectures"

// ConfigureStages registers the concrete stage handlers the pipeline will run.
func (m *Manager) ConfigureStages(set StageSet) {
	transcription := &laneState{lane: lectures.LaneTranscription}
	enrichment := &laneState{lane: lectures.LaneEnrichment}

	if set.Transcriber != nil {
		transcription.stages = append(transcription.stages, pipelineStage{
			name:             "transcriber",
			handler:          set.Transcriber,
			startStatus:      lectures.StatusPending,
			processingStatus: lectures.StatusTranscribing,
			doneStatus:       lectures.StatusTranscribed,
		})
	}
	if set.Analyzer != nil {
		enrichment.stages = append(enrichment.stages, pipelineStage{
			name:             "analyzer",
			handler:          set.Analyzer,
			startStatus:      lectures.StatusTranscribed,
			processingStatus: lectures.StatusAnalyzing,
			doneStatus:       lectures.StatusAnalyzed,
		})
	}
	modeledStatus := lectures.StatusAnalyzed
	if set.Modeler != nil {
		enrichment.stages = append(enrichment.stages, pipelineStage{
			name:             "topic-modeler",
			handler:          set.Modeler,
			startStatus:      lectures.StatusAnalyzed,
			processingStatus: lectures.StatusModeling,
			doneStatus:       lectures.StatusModeled,
		})
		modeledStatus = lectures.StatusModeled
	}
	if set.NotesGenerator != nil {
		enrichment.stages = append(enrichment.stages, pipelineStage{
			name:             "notes-generator",
			handler:          set.NotesGenerator,
			startStatus:      modeledStatus,
			processingStatus: lectures.StatusAnnotating,
			doneStatus:       lectures.StatusCompleted,
		})
	}

	lanes := make(map[lectures.Lane]*laneState)
	order := make([]lectures.Lane, 0, 2)

	if len(transcription.stages) > 0 {
		transcription.finalize()
		lanes[transcription.lane] = transcription
		order = append(order, transcription.lane)
	}
	if len(enrichment.stages) > 0 {
		enrichment.finalize()
		lanes[enrichment.lane] = enrichment
		order = append(order, enrichment.lane)
	}

	// Stale reclaim rolls back every processing status in one statement, so
	// only the first lane runs it.
	if len(order) > 0 {
		lanes[order[0]].runReclaimer = true
	}

	m.mu.Lock()
	m.lanes = lanes
	m.laneOrder = order
	m.mu.Unlock()
}
