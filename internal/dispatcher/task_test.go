package dispatcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAnalysisTask(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]interface{}
		want    AnalysisTask
		wantErr bool
	}{
		{
			name:   "valid",
			values: map[string]interface{}{"payload": `{"analysis_id":4,"subject_id":2,"trigger":"api"}`},
			want:   AnalysisTask{AnalysisID: 4, SubjectID: 2, Trigger: TriggerAPI},
		},
		{name: "missing payload", values: map[string]interface{}{}, wantErr: true},
		{name: "not a string", values: map[string]interface{}{"payload": 12}, wantErr: true},
		{name: "bad json", values: map[string]interface{}{"payload": "{"}, wantErr: true},
		{name: "zero id", values: map[string]interface{}{"payload": `{"subject_id":2}`}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeAnalysisTask(tt.values)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFuncDispatcher(t *testing.T) {
	var got AnalysisTask
	d := FuncDispatcher(func(_ context.Context, task AnalysisTask) error {
		got = task
		return nil
	})

	require.NoError(t, d.Dispatch(context.Background(), AnalysisTask{AnalysisID: 9, Trigger: TriggerScheduler}))
	assert.Equal(t, uint(9), got.AnalysisID)
}
