package tokenrepo

import "errors"

// ErrDuplicateToken indicates a token value that is already stored. With
// 25 characters of alphanumeric entropy this should never happen, but the
// store must refuse to overwrite rather than silently remap the token.
var ErrDuplicateToken = errors.New("confirmation token already exists")
