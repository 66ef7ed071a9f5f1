package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Scenarios(t *testing.T) {
	for _, name := range []string{"pets_owner", "pets_no_pet"} {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario("../../testdata/scenarios/" + name + ".yaml")
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestMarshalSnapshot_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("../../testdata/scenarios/pets_rejections.yaml")
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	snap := func(r *Result) []byte {
		out, err := MarshalSnapshot(TraceSnapshot{ScenarioName: scenario.Name, SurveyID: scenario.SurveyID, Trace: r.Trace})
		require.NoError(t, err)
		return out
	}
	assert.Equal(t, snap(first), snap(second), "trace JSON must be identical across runs")
}

func TestMarshalSnapshot_Format(t *testing.T) {
	out, err := MarshalSnapshot(TraceSnapshot{
		ScenarioName: "s",
		SurveyID:     "pets",
		Trace: []TraceEvent{
			{Seq: 1, Type: EventSubmit, QuestionID: "q1", Error: &TraceError{Kind: "CONFLICT", Message: "Session already completed"}},
		},
	})
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `"scenario_name": "s"`)
	assert.Contains(t, s, `"kind": "CONFLICT"`)
	assert.NotContains(t, s, `"answer"`, "empty fields are omitted")
	assert.Equal(t, byte('\n'), out[len(out)-1])
}
