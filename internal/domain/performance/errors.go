package performance

import "errors"

// ErrCriteriaInUse blocks deletion of a criteria that performance
// scores still reference.
var ErrCriteriaInUse = errors.New("evaluation criteria is referenced by performance scores")
