package core

import "testing"

func TestIntentSet(t *testing.T) {
	var s IntentSet
	s = s.With(IntentLeft).With(IntentFire)

	tests := []struct {
		intent   Intent
		expected bool
	}{
		{IntentLeft, true},
		{IntentFire, true},
		{IntentRight, false},
		{IntentConfirm, false},
	}

	for _, tc := range tests {
		t.Run(tc.intent.String(), func(t *testing.T) {
			if got := s.Has(tc.intent); got != tc.expected {
				t.Errorf("Has(%v) = %v, expected %v", tc.intent, got, tc.expected)
			}
		})
	}
}

func TestInputSteering(t *testing.T) {
	tests := []struct {
		name     string
		held     []Intent
		expected bool
	}{
		{"idle", nil, false},
		{"fire only", []Intent{IntentFire}, false},
		{"left", []Intent{IntentLeft}, true},
		{"down and fire", []Intent{IntentDown, IntentFire}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var in Input
			for _, i := range tc.held {
				in.Hold(i)
			}
			if got := in.Steering(); got != tc.expected {
				t.Errorf("Steering() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestInputClone(t *testing.T) {
	var in Input
	in.Hold(IntentUp)
	in.Press(IntentConfirm)
	in.Text = []rune("ab")

	c := in.Clone()
	in.Pressed[0] = IntentCancel
	in.Text[0] = 'z'

	if c.Pressed[0] != IntentConfirm {
		t.Errorf("clone shares Pressed with original")
	}
	if string(c.Text) != "ab" {
		t.Errorf("clone shares Text with original, got %q", string(c.Text))
	}
	if !c.Holding(IntentUp) {
		t.Errorf("clone lost held intents")
	}
}
