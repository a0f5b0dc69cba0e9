package telegram

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNoAttachment       = errors.New("voice attachment not found")
	ErrTranscriptionEmpty = errors.New("speech not recognized")
)

type Stage string

const (
	StageDownload      Stage = "download"
	StageTranscription Stage = "transcription"
	StageHandler       Stage = "handler"
)

// PipelineError — сбой голосового пайплайна на конкретном шаге.
type PipelineError struct {
	Stage Stage
	Err   error
}

func newPipelineError(stage Stage, err error) *PipelineError {
	return &PipelineError{Stage: stage, Err: errors.WithStack(err)}
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Format отдаёт стек при %+v.
func (e *PipelineError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s: %+v", e.Stage, e.Err)
		return
	}
	fmt.Fprint(s, e.Error())
}
