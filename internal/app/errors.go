package service

import (
	"fmt"

	"github.com/okian/teamfit/internal/domain/model"
)

// ErrNotReady is returned by engine calls made before Start completed. It
// matches model.ErrNotReady.
var ErrNotReady = fmt.Errorf("%w: compatibility matrix not loaded", model.ErrNotReady)
