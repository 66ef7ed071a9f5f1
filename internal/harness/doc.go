// Package harness provides conformance testing for survey definitions.
//
// A scenario loads one or more survey documents, starts a session on a
// survey, submits a sequence of answers and checks the engine's response to
// each of them. The whole run is recorded as a trace for golden comparison.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	surveys:
//	  - ../surveys/pets.yaml
//	survey_id: pets
//	steps:
//	  - question_id: q1
//	    answer: { optionId: "yes" }
//	    expect: { next_question_id: q2 }
//	  - question_id: q2
//	    answer: { optionIds: [dog, dog] }
//	    expect:
//	      error_kind: BAD_INPUT
//	      error_contains: Duplicated optionIds
//	  - question_id: q3
//	    skip: true
//	    expect: { completed: true }
//	final:
//	  completed: true
//	  answers: [q1, q2, q3]
//
// A step without an expect clause must succeed. error_kind is one of
// NOT_FOUND, CONFLICT, BAD_INPUT and CORRUPTION.
//
// # Deterministic Testing
//
// The harness uses:
//   - A fresh in-memory store per run (store.NewMemory)
//   - Deterministic clock (testutil.DeterministicClock)
//   - Sequential session tokens named after the scenario
//
// The trace carries no session uuid or timestamps, so it is identical
// across runs.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/pets_owner.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
