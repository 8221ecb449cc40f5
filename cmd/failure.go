package main

import (
	"errors"
	"io/fs"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/landgrid/internal/boundary"
)

// Failure classes reported when a command fails.
const (
	failureDownload     = "download"
	failureMissingInput = "missing_input"
	failureOther        = "other"
)

func failureClass(err error) string {
	switch {
	case errors.Is(err, boundary.ErrDownload):
		return failureDownload
	case errors.Is(err, fs.ErrNotExist):
		return failureMissingInput
	default:
		return failureOther
	}
}

// reportFailure logs err with its class and full trace and returns it
// unchanged so the process exits non-zero.
func reportFailure(log *zap.Logger, err error) error {
	if err == nil {
		return nil
	}

	class := failureClass(err)
	msg := "command failed"
	switch class {
	case failureDownload:
		msg = "boundary download failed"
	case failureMissingInput:
		msg = "input file not found"
	}

	log.Error(msg,
		zap.String("failure", class),
		zap.String("trace", eris.ToString(err, true)),
	)
	return err
}
