package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is wrapped by every repository backend when a requested entity does not exist
var ErrNotFound = goerr.New("not found")
