package version

import (
	"os"
	"os/exec"
	"strings"
	"sync"
	"testing"
)

// TestHelperProcess isn't a real test. It's used to mock execCommand.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}
	if len(args) < 3 || args[0] != "git" {
		os.Exit(0)
	}

	switch args[2] {
	case "--always":
		// git describe --always --dirty
		if os.Getenv("MOCK_GIT_COMMIT_FAIL") == "1" {
			os.Exit(1)
		}
		os.Stdout.WriteString("mock-commit-hash")
	case "--tags":
		// git describe --tags --abbrev=0
		if os.Getenv("MOCK_GIT_VERSION_FAIL") == "1" {
			os.Exit(1)
		}
		if os.Getenv("MOCK_GIT_VERSION_EMPTY") == "1" {
			os.Stdout.WriteString("")
		} else {
			os.Stdout.WriteString("v1.2.3")
		}
	}
}

func mockExecCommand(command string, args ...string) *exec.Cmd {
	cs := []string{"-test.run=TestHelperProcess", "--", command}
	cs = append(cs, args...)
	cmd := exec.Command(os.Args[0], cs...)
	cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1"}
	for _, key := range []string{"MOCK_GIT_COMMIT_FAIL", "MOCK_GIT_VERSION_FAIL", "MOCK_GIT_VERSION_EMPTY"} {
		if val := os.Getenv(key); val != "" {
			cmd.Env = append(cmd.Env, key+"="+val)
		}
	}
	return cmd
}

// reset clears the package state so each case re-runs initialization.
func reset() {
	Version, Commit, Date = "", "", ""
	once = sync.Once{}
}

func TestInfo(t *testing.T) {
	origExecCommand := execCommand
	defer func() { execCommand = origExecCommand }()
	execCommand = mockExecCommand

	tests := []struct {
		name           string
		mockCommitFail string
		mockVerFail    string
		mockVerEmpty   string
		expectedVer    string
		expectedCommit string
	}{
		{
			name:           "Success",
			expectedVer:    "1.2.3",
			expectedCommit: "mock-commit-hash",
		},
		{
			name:           "CommitFail",
			mockCommitFail: "1",
			expectedVer:    "1.2.3",
			expectedCommit: "unknown",
		},
		{
			name:           "VersionFail",
			mockVerFail:    "1",
			expectedVer:    "dev",
			expectedCommit: "mock-commit-hash",
		},
		{
			name:           "VersionEmpty",
			mockVerEmpty:   "1",
			expectedVer:    "dev",
			expectedCommit: "mock-commit-hash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reset()

			if tt.mockCommitFail != "" {
				os.Setenv("MOCK_GIT_COMMIT_FAIL", tt.mockCommitFail)
				defer os.Unsetenv("MOCK_GIT_COMMIT_FAIL")
			}
			if tt.mockVerFail != "" {
				os.Setenv("MOCK_GIT_VERSION_FAIL", tt.mockVerFail)
				defer os.Unsetenv("MOCK_GIT_VERSION_FAIL")
			}
			if tt.mockVerEmpty != "" {
				os.Setenv("MOCK_GIT_VERSION_EMPTY", tt.mockVerEmpty)
				defer os.Unsetenv("MOCK_GIT_VERSION_EMPTY")
			}

			ensureInitialized()

			if Version != tt.expectedVer {
				t.Errorf("Version = %v, want %v", Version, tt.expectedVer)
			}
			if Commit != tt.expectedCommit {
				t.Errorf("Commit = %v, want %v", Commit, tt.expectedCommit)
			}

			info := Info()
			if !strings.HasPrefix(info, "ccpulse ") {
				t.Errorf("Info() = %q, want ccpulse prefix", info)
			}
			if !strings.Contains(info, tt.expectedVer) || !strings.Contains(info, tt.expectedCommit) {
				t.Errorf("Info() = %q, missing version or commit", info)
			}
		})
	}
}

func TestLdflagsValuesKept(t *testing.T) {
	origExecCommand := execCommand
	defer func() { execCommand = origExecCommand }()
	execCommand = mockExecCommand

	reset()
	Version, Commit, Date = "9.9.9", "abc1234", "2026-01-01"
	ensureInitialized()

	if Version != "9.9.9" || Commit != "abc1234" || Date != "2026-01-01" {
		t.Errorf("ldflags values overwritten: %v %v %v", Version, Commit, Date)
	}
}

func TestDateDefaults(t *testing.T) {
	origExecCommand := execCommand
	defer func() { execCommand = origExecCommand }()
	execCommand = mockExecCommand

	reset()
	ensureInitialized()
	if Date == "" {
		t.Error("Date should default to the current day")
	}
}
