package selection

import (
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-pos-service/pkg/apperror"
)

const (
	MsgNoBatch       = "selection.no_batch"
	MsgNotPresenting = "selection.not_presenting"
	MsgUnknownBatch  = "selection.unknown_batch"
)

var (
	ErrNoSelectableBatch = apperror.New(apperror.CodeFailedPrecondition, MsgNoBatch, "no batch available on the shelf")
	ErrNotPresenting     = apperror.New(apperror.CodeFailedPrecondition, MsgNotPresenting, "no batch selection is open")
	ErrUnknownBatch      = apperror.New(apperror.CodeNotFound, MsgUnknownBatch, "batch is not one of the presented options")
)

// ErrSuperseded is returned by Begin when the flow was cancelled or replaced
// while its batches were being fetched. The fetched result is dropped.
var ErrSuperseded = errors.New("selection superseded")

func noSelectableBatch(name string) *apperror.Error {
	return ErrNoSelectableBatch.With(
		fmt.Sprintf("no batch of %s available on the shelf", name),
		map[string]interface{}{"Name": name},
	)
}
