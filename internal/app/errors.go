package app

import (
	"errors"
	"fmt"

	"github.com/justyntemme/razorfs/internal/fs"
)

// Describe turns an operation error into the message shown in place of the
// content area. It returns "" for nil.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	if fs.KindOf(err) == fs.KindPartialFailure {
		var pe *fs.PartialError
		if errors.As(err, &pe) {
			return fmt.Sprintf("%d of %d items could not be completed", pe.Count(), pe.Total)
		}
		return "Some items could not be completed"
	}

	var fe *fs.Error
	if !errors.As(err, &fe) {
		return err.Error()
	}
	switch fe.Kind {
	case fs.KindPermissionDenied:
		if fe.Path != "" {
			return "Permission denied: " + fe.Path
		}
		return "Permission denied"
	case fs.KindNotFound:
		if fe.Path != "" {
			return fe.Path + " no longer exists"
		}
		return "Not found"
	case fs.KindEmptyClipboard:
		return "Nothing to paste"
	}
	if fe.Err != nil {
		return fe.Err.Error()
	}
	return err.Error()
}
