// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package startup reports the bound listen port once at process start. Under
// a supervising parent the port travels as a structured message over an
// inherited pipe; standalone it is logged to the error stream.
package startup

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Reporter announces the address the server ended up bound to.
type Reporter interface {
	Listening(port int) error
}

// listeningMessage is the structured payload a supervisor receives.
type listeningMessage struct {
	Event string `json:"event"`
	Port  int    `json:"port"`
}

type pipeReporter struct {
	w io.Writer
}

func (r pipeReporter) Listening(port int) error {
	if err := json.NewEncoder(r.w).Encode(listeningMessage{Event: "listening", Port: port}); err != nil {
		return fmt.Errorf("write listening message: %w", err)
	}
	return nil
}

type logReporter struct {
	logger zerolog.Logger
}

func (r logReporter) Listening(port int) error {
	r.logger.Info().Int("port", port).Msg("listening")
	return nil
}

// NewReporter selects the reporting strategy: a structured-message reporter
// when the supervisor passed a notification descriptor, a log reporter
// otherwise. notifyFD < 0 means no supervisor.
func NewReporter(notifyFD int, logger zerolog.Logger) Reporter {
	if notifyFD >= 0 {
		if f := os.NewFile(uintptr(notifyFD), "notify"); f != nil {
			return pipeReporter{w: f}
		}
		logger.Warn().Int("notify_fd", notifyFD).Msg("invalid notification descriptor, falling back to log reporting")
	}
	return logReporter{logger: logger}
}

// NewPipeReporter wraps an explicit writer, used by supervisors that hand the
// channel over directly and by tests.
func NewPipeReporter(w io.Writer) Reporter {
	return pipeReporter{w: w}
}
