package observer

import "github.com/pkg/errors"

// ErrHeadTupleMissing is returned when the fork choice picked a block whose
// tuple is in neither the details cache nor tuple storage. The surrounding
// system is inconsistent; the head update aborts.
var ErrHeadTupleMissing = errors.New("beacon tuple not found for new head")

// errStalePublish flags a publish call for a slot below the head block's
// slot. Callers filter before publishing, so hitting this is a bug.
var errStalePublish = errors.New("publish slot below head block slot")
