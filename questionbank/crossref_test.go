package questionbank

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestApplySolutions(t *testing.T) {
	records := []Record{
		{Number: 1, Question: "Q1", Answers: []string{"a) x", "b) y", "c) z"}},
		{Number: 2, Question: "Q2", Answers: []string{"a) x", "b) y"}},
		{Number: 3, Question: "Q3", Answers: []string{"a) x"}},
		{Number: 4, Question: "Q4", Answers: []string{}},
	}
	sol := Solutions{1: {"a", "c"}, 2: {"b", "d"}, 4: {"a"}, 9: {"a"}}

	got, rep := ApplySolutions(records, sol)

	wantCorrect := [][]bool{
		{true, false, true},
		{false, true},
		{false},
		{},
	}
	for i, r := range got {
		if len(r.Correct) != len(r.Answers) {
			t.Fatalf("record %d: len(Correct)=%d, len(Answers)=%d", r.Number, len(r.Correct), len(r.Answers))
		}
		if diff := cmp.Diff(wantCorrect[i], r.Correct); diff != "" {
			t.Errorf("record %d Correct (-want +got):\n%s", r.Number, diff)
		}
	}

	wantRep := Report{
		Unsolved: []int{3},
		Orphans:  []int{9},
		OutOfRange: []LetterRef{
			{Number: 2, Letter: "d"},
			{Number: 4, Letter: "a"},
		},
	}
	if diff := cmp.Diff(wantRep, rep); diff != "" {
		t.Errorf("report (-want +got):\n%s", diff)
	}
	if rep.Clean() {
		t.Error("report should not be clean")
	}
}

func TestApplySolutions_DoesNotMutateInput(t *testing.T) {
	records := []Record{{Number: 1, Question: "Q", Answers: []string{"a) x"}}}
	got, _ := ApplySolutions(records, Solutions{1: {"a"}})
	if records[0].Correct != nil {
		t.Fatalf("input record mutated: %+v", records[0])
	}
	got[0].Answers[0] = "changed"
	if records[0].Answers[0] != "a) x" {
		t.Fatal("output shares answer storage with input")
	}
}

func TestApplySolutions_EmptySolutions(t *testing.T) {
	records := []Record{{Number: 1, Answers: []string{"a) x", "b) y"}}}
	got, rep := ApplySolutions(records, Solutions{})
	if diff := cmp.Diff([]bool{false, false}, got[0].Correct); diff != "" {
		t.Errorf("Correct (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1}, rep.Unsolved); diff != "" {
		t.Errorf("Unsolved (-want +got):\n%s", diff)
	}
}

func TestApplySolutions_Duplicates(t *testing.T) {
	records := []Record{
		{Number: 1, Answers: []string{"a) x"}},
		{Number: 1, Answers: []string{"a) y", "b) z"}},
	}
	got, rep := ApplySolutions(records, Solutions{1: {"b"}})
	if diff := cmp.Diff([]int{1}, rep.Duplicates); diff != "" {
		t.Errorf("Duplicates (-want +got):\n%s", diff)
	}
	if !got[1].Correct[1] {
		t.Errorf("second record with number 1 should get the solution: %+v", got[1])
	}
	if diff := cmp.Diff([]LetterRef{{Number: 1, Letter: "b"}}, rep.OutOfRange); diff != "" {
		t.Errorf("OutOfRange (-want +got):\n%s", diff)
	}
}

func TestApplySolutions_JoinsOnMarkerLetter(t *testing.T) {
	records := []Record{{Number: 1, Question: "Q1", Answers: []string{"b) x", "a) y"}}}
	got, rep := ApplySolutions(records, Solutions{1: {"a"}})
	if diff := cmp.Diff([]bool{false, true}, got[0].Correct); diff != "" {
		t.Errorf("Correct (-want +got):\n%s", diff)
	}
	if !rep.Clean() {
		t.Errorf("report = %+v, want clean", rep)
	}
}
