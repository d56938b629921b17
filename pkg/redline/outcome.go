package redline

import (
	"errors"
	"strings"

	"github.com/gardar/redliner/pkg/rederr"
)

// StatusSuccess is the status of a document that was redlined and saved.
const StatusSuccess = "Success"

// Outcome is the result of one MakeRedline call.
type Outcome struct {
	RunID       string   `yaml:"run_id"`
	Source      string   `yaml:"source"`
	Status      string   `yaml:"status"`
	Output      string   `yaml:"output,omitempty"`
	Matches     int      `yaml:"matches"`
	Annotations int      `yaml:"annotations"`
	Warnings    int      `yaml:"warnings"`
	Passes      int      `yaml:"passes"`
	Rotation    int      `yaml:"rotation"`
	Skipped     bool     `yaml:"skipped"`
	Log         []string `yaml:"log"`
}

func (o Outcome) Success() bool { return o.Status == StatusSuccess }

// JoinedLog returns the operation log as one CRLF separated string.
func (o Outcome) JoinedLog() string {
	return strings.Join(o.Log, "\r\n")
}

// describe returns the human readable description of err used as status.
func describe(err error) string {
	var re *rederr.Error
	if errors.As(err, &re) {
		if re.Cause != nil {
			return re.Message + ": " + re.Cause.Error()
		}
		return re.Message
	}
	return err.Error()
}
