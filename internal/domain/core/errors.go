package core

import "errors"

// ErrSupervisesOthers blocks deletion of a user who still has direct
// reports.
var ErrSupervisesOthers = errors.New("user still supervises other users")
