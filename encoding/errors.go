package encoding

import "github.com/bilrost-go/bilrost/errs"

var errRecursionLimit = errs.ErrRecursionLimitReached
