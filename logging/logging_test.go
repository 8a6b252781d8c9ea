package logging

import "testing"

func TestNewLoggerDefaults(t *testing.T) {
	if NewLogger(nil) == nil {
		t.Fatal("NewLogger(nil) = nil")
	}
}

func TestNewLoggerStyles(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"noop", Config{Style: StyleNoop}},
		{"json", Config{Style: StyleJson, Level: "debug"}},
		{"terminal", Config{Style: StyleTerminal, Level: "warn"}},
		{"unparseable level falls back", Config{Style: StyleNoop, Level: "shouting"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if NewLogger(&tt.cfg) == nil {
				t.Error("NewLogger() = nil")
			}
		})
	}
}
