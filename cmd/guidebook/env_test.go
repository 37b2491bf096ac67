package main

import (
	"os"
	"testing"
)

func TestDefaultEnv(t *testing.T) {
	t.Parallel()

	env := DefaultEnv()
	if env.Stdout != os.Stdout || env.Stderr != os.Stderr {
		t.Error("DefaultEnv() should write to os.Stdout and os.Stderr")
	}
	if env.Now().IsZero() {
		t.Error("Now() returned the zero time")
	}
	if env.Getenv == nil || env.Environ == nil {
		t.Error("DefaultEnv() should read the process environment")
	}
}

func TestOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		flags      commonFlags
		wantStdout string
		wantStderr string
	}{
		{
			name:       "default",
			flags:      commonFlags{},
			wantStdout: "info\n",
			wantStderr: "warning: warn\nerror\n",
		},
		{
			name:       "verbose",
			flags:      commonFlags{verbose: true},
			wantStdout: "info\n",
			wantStderr: "debug\nwarning: warn\nerror\n",
		},
		{
			name:       "quiet wins over verbose",
			flags:      commonFlags{quiet: true, verbose: true},
			wantStdout: "",
			wantStderr: "error\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(nil)
			out := newOutput(env, tt.flags)
			out.Infof("info")
			out.Debugf("debug")
			out.Warnf("warn")
			out.Errorf("error")

			if stdout.String() != tt.wantStdout {
				t.Errorf("stdout = %q, want %q", stdout, tt.wantStdout)
			}
			if stderr.String() != tt.wantStderr {
				t.Errorf("stderr = %q, want %q", stderr, tt.wantStderr)
			}
		})
	}
}
