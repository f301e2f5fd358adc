package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestReportDefaults(t *testing.T) {
	var r Report

	assert.Equal(t, 0, r.Score())
	assert.Equal(t, DefaultFeedback, r.FeedbackText())
	assert.False(t, r.HasMissingSkills())
	assert.True(t, r.IsEmpty())
}

func TestDisplayScoreClamps(t *testing.T) {
	tests := []struct {
		name  string
		score *int
		want  int
	}{
		{"absent", nil, 0},
		{"in range", intPtr(72), 72},
		{"above range", intPtr(137), 100},
		{"below range", intPtr(-5), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Report{MatchScore: tt.score}
			assert.Equal(t, tt.want, r.DisplayScore())
		})
	}
}

func TestNewReportViewDoesNotMutate(t *testing.T) {
	r := &Report{MatchScore: intPtr(137)}

	view := NewReportView(r)

	assert.Equal(t, 100, view.MatchScore)
	assert.Equal(t, "100/100", view.ScoreLabel)
	assert.Equal(t, 137, *r.MatchScore)
	assert.NotNil(t, view.MissingSkills)
	assert.NotNil(t, view.RecommendedJobs)
	assert.Equal(t, DefaultFeedback, view.Feedback)
}

func TestReportJSONOmitsAbsentFields(t *testing.T) {
	r := &Report{MatchScore: intPtr(80), MissingSkills: []string{"Docker"}}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	assert.JSONEq(t, `{"match_score":80,"missing_skills":["Docker"]}`, string(data))
}

func TestReportJSONKeepsEmptyLists(t *testing.T) {
	r := &Report{MatchScore: intPtr(90), MissingSkills: []string{}}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"match_score":90,"missing_skills":[]}`, string(data))

	var reloaded Report
	require.NoError(t, json.Unmarshal(data, &reloaded))
	assert.NotNil(t, reloaded.MissingSkills)
	assert.Empty(t, reloaded.MissingSkills)
	assert.Nil(t, reloaded.Recommendations)
	assert.Equal(t, r.IsEmpty(), reloaded.IsEmpty())
}
