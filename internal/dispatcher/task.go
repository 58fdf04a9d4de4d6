package dispatcher

import (
	"encoding/json"
	"fmt"
	"time"
)

// Trigger identifies who asked for a run.
type Trigger string

const (
	TriggerAPI       Trigger = "api"
	TriggerScheduler Trigger = "scheduler"
)

// AnalysisTask is the payload carried by the analysis stream.
type AnalysisTask struct {
	AnalysisID  uint      `json:"analysis_id"`
	SubjectID   uint      `json:"subject_id"`
	Trigger     Trigger   `json:"trigger"`
	RequestedAt time.Time `json:"requested_at"`
}

// DecodeAnalysisTask reads the JSON payload field of a stream entry.
func DecodeAnalysisTask(values map[string]interface{}) (AnalysisTask, error) {
	var task AnalysisTask
	raw, ok := values["payload"].(string)
	if !ok {
		return task, fmt.Errorf("field 'payload' not found or not a string")
	}
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		return task, fmt.Errorf("failed to unmarshal analysis task: %w", err)
	}
	if task.AnalysisID == 0 {
		return task, fmt.Errorf("analysis task without analysis_id")
	}
	return task, nil
}
