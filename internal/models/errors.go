// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

package models

import "errors"

// ErrDataIntegrity marks a stored row that violates a structural invariant
// the application relies on, e.g. a widget member row referencing zero or
// several catalog entities at once. It signals an upstream bug and is
// surfaced loudly, never silently recovered.
var ErrDataIntegrity = errors.New("data integrity violation")
