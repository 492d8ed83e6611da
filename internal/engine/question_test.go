package engine

import "testing"

func TestMultipleChoiceGrading(t *testing.T) {
	q := MultipleChoice{QuestionID: 1, PointValue: 3, CorrectIndex: 2}

	testCases := []struct {
		name    string
		raw     interface{}
		correct bool
	}{
		{"matching index as number", float64(2), true},
		{"matching index as string", "2", true},
		{"matching index with spaces", " 2 ", true},
		{"wrong index", float64(1), false},
		{"non numeric string", "two", false},
		{"wrong shape", []interface{}{"2"}, false},
		{"nil answer", nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := q.Grade(ParseAnswer(q, tc.raw)); got != tc.correct {
				t.Errorf("Grade(%v) = %v, want %v", tc.raw, got, tc.correct)
			}
		})
	}
}

func TestTrueFalseGrading(t *testing.T) {
	q := TrueFalse{QuestionID: 2, PointValue: 1, CorrectValue: "true"}

	testCases := []struct {
		name    string
		raw     interface{}
		correct bool
	}{
		{"exact match", "true", true},
		{"case insensitive", "TRUE", true},
		{"boolean input", true, true},
		{"wrong value", "false", false},
		{"wrong boolean", false, false},
		{"wrong shape", float64(1), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := q.Grade(ParseAnswer(q, tc.raw)); got != tc.correct {
				t.Errorf("Grade(%v) = %v, want %v", tc.raw, got, tc.correct)
			}
		})
	}
}

func TestFillBlankGrading(t *testing.T) {
	single := FillBlank{QuestionID: 3, PointValue: 2, Alternatives: []string{"aes", "des"}}
	multi := FillBlank{QuestionID: 4, PointValue: 2, Alternatives: []string{"aes", "rsa"}}

	testCases := []struct {
		name    string
		q       Question
		raw     interface{}
		correct bool
	}{
		{"single blank first alternative", single, "AES", true},
		{"single blank second alternative", single, " des ", true},
		{"single blank wrong", single, "rsa", false},
		// 多空按位置逐一比对，不做集合比较。
		{"multi blank aligned", multi, []interface{}{"AES", "RSA"}, true},
		{"multi blank trimmed", multi, []interface{}{" aes ", "rsa"}, true},
		{"multi blank swapped", multi, []interface{}{"rsa", "aes"}, false},
		{"multi blank length mismatch", multi, []interface{}{"aes"}, false},
		{"multi blank non string entry", multi, []interface{}{"aes", 5.0}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.q.Grade(ParseAnswer(tc.q, tc.raw)); got != tc.correct {
				t.Errorf("Grade(%v) = %v, want %v", tc.raw, got, tc.correct)
			}
		})
	}
}

func TestDragDropGrading(t *testing.T) {
	q := DragDrop{
		QuestionID: 5,
		PointValue: 4,
		CorrectMapping: map[string]string{
			"firewall": "perimeter",
			"ids":      "detection",
		},
	}

	testCases := []struct {
		name    string
		raw     interface{}
		correct bool
	}{
		{
			"all targets matched",
			map[string]interface{}{"firewall": "perimeter", "ids": "detection"},
			true,
		},
		{
			"extra placements ignored",
			map[string]interface{}{"firewall": "perimeter", "ids": "detection", "vpn": "tunnel"},
			true,
		},
		{
			"one target wrong",
			map[string]interface{}{"firewall": "detection", "ids": "perimeter"},
			false,
		},
		{
			"missing target",
			map[string]interface{}{"firewall": "perimeter"},
			false,
		},
		{"wrong shape", "firewall=perimeter", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := q.Grade(ParseAnswer(q, tc.raw)); got != tc.correct {
				t.Errorf("Grade(%v) = %v, want %v", tc.raw, got, tc.correct)
			}
		})
	}
}

func TestUnsupportedAlwaysIncorrect(t *testing.T) {
	q := Unsupported{QuestionID: 6, PointValue: 5}

	for _, raw := range []interface{}{"anything", float64(1), map[string]interface{}{}} {
		if q.Grade(ParseAnswer(q, raw)) {
			t.Errorf("unsupported question graded %v as correct", raw)
		}
	}
	if q.Points() != 5 {
		t.Errorf("unsupported question should keep its point value, got %d", q.Points())
	}
}
