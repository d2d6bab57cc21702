package workflow

import (
	"log/slog"

	"lectern/internal/lectures"
	"lectern/internal/stage"
)

// StageSet bundles the concrete pipeline handlers the manager orchestrates.
type StageSet struct {
	Transcriber    stage.Handler
	Analyzer       stage.Handler
	Modeler        stage.Handler
	NotesGenerator stage.Handler
}

type pipelineStage struct {
	name             string
	handler          stage.Handler
	startStatus      lectures.Status
	processingStatus lectures.Status
	doneStatus       lectures.Status
}

type laneState struct {
	lane         lectures.Lane
	stages       []pipelineStage
	statusOrder  []lectures.Status
	stageByStart map[lectures.Status]pipelineStage
	logger       *slog.Logger
	runReclaimer bool
}

func (l *laneState) finalize() {
	if l == nil {
		return
	}
	l.stageByStart = make(map[lectures.Status]pipelineStage, len(l.stages))
	l.statusOrder = make([]lectures.Status, 0, len(l.stages))
	for _, stg := range l.stages {
		l.stageByStart[stg.startStatus] = stg
		l.statusOrder = append(l.statusOrder, stg.startStatus)
	}
}

func (l *laneState) stageForStatus(status lectures.Status) (pipelineStage, bool) {
	if l == nil {
		return pipelineStage{}, false
	}
	stg, ok := l.stageByStart[status]
	return stg, ok
}
