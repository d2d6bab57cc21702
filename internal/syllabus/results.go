package syllabus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"lectern/internal/textutil"
)

// Result is the combined output of one syllabus processing run.
type Result struct {
	CoverageStats CoverageStats `json:"coverage_stats"`
	CourseRoadmap []RoadmapDay  `json:"course_roadmap"`
}

// LatestResult wraps the newest saved result with its filename.
type LatestResult struct {
	Filename string `json:"filename"`
	Data     Result `json:"data"`
}

// SaveResult writes the result under resultsDir as
// <original base>_<YYYYMMDD_HHMMSS>.json and returns the saved path.
func SaveResult(resultsDir string, result *Result, originalFilename string) (string, error) {
	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}

	base := strings.TrimSuffix(originalFilename, filepath.Ext(originalFilename))
	base = textutil.SanitizeFileName(base)
	if base == "" {
		base = "syllabus"
	}
	timestamp := time.Now().Format("20060102_150405")
	savePath := filepath.Join(resultsDir, fmt.Sprintf("%s_%s.json", base, timestamp))

	encoded, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	if err := os.WriteFile(savePath, encoded, 0o644); err != nil {
		return "", fmt.Errorf("write result: %w", err)
	}
	return savePath, nil
}

// LatestCoverageResult returns the most recently written result file, or nil
// when no syllabus has been processed yet.
func LatestCoverageResult(resultsDir string) (*LatestResult, error) {
	entries, err := os.ReadDir(resultsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read results dir: %w", err)
	}

	type candidate struct {
		name    string
		modTime time.Time
	}
	candidates := make([]candidate, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{name: entry.Name(), modTime: info.ModTime()})
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime.After(candidates[j].modTime)
	})

	latest := candidates[0]
	raw, err := os.ReadFile(filepath.Join(resultsDir, latest.name))
	if err != nil {
		return nil, fmt.Errorf("read result %s: %w", latest.name, err)
	}
	var data Result
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode result %s: %w", latest.name, err)
	}
	return &LatestResult{Filename: latest.name, Data: data}, nil
}
